package controllers

import (
	"log"

	"classquiz/backend/config"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Svc    *services.Service
	Cfg    *config.Config
	Logger *log.Logger
}

func NewUserController(svc *services.Service, cfg *config.Config, logger *log.Logger) *UserController {
	return &UserController{Svc: svc, Cfg: cfg, Logger: logger}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the account and the student or teacher profile it belongs to
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	profile, err := uc.Svc.Profile(c.UserContext(), id)
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, profile)
}
