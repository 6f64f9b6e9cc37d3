package controllers

import (
	"log"

	"classquiz/backend/config"
	"classquiz/backend/models"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc    *services.Service
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(svc *services.Service, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Svc: svc, Cfg: cfg, Logger: logger}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterTeacher godoc
// @Summary Register a teacher
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.TeacherSignup true "Teacher registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register/teacher [post]
func (ac *AuthController) RegisterTeacher(c *fiber.Ctx) error {
	var input services.TeacherSignup
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, teacher, err := ac.Svc.RegisterTeacher(c.UserContext(), input)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return ac.issueToken(c, fiber.StatusCreated, user, fiber.Map{"teacher": teacher})
}

// RegisterStudent godoc
// @Summary Register a student
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.StudentSignup true "Student registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register/student [post]
func (ac *AuthController) RegisterStudent(c *fiber.Ctx) error {
	var input services.StudentSignup
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, student, err := ac.Svc.RegisterStudent(c.UserContext(), input)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return ac.issueToken(c, fiber.StatusCreated, user, fiber.Map{"student": student})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, err := ac.Svc.Authenticate(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return respondError(c, ac.Logger, err)
	}
	return ac.issueToken(c, fiber.StatusOK, user, nil)
}

func (ac *AuthController) issueToken(c *fiber.Ctx, status int, user *models.User, extra fiber.Map) error {
	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	data := fiber.Map{
		"token": token,
		"user":  user,
	}
	for k, v := range extra {
		data[k] = v
	}
	return utils.Success(c, status, data)
}
