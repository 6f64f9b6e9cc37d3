package controllers

import (
	"log"

	"classquiz/backend/config"
	"classquiz/backend/models"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct {
	Svc    *services.Service
	Cfg    *config.Config
	Logger *log.Logger
}

func NewTeacherController(svc *services.Service, cfg *config.Config, logger *log.Logger) *TeacherController {
	return &TeacherController{Svc: svc, Cfg: cfg, Logger: logger}
}

func (tc *TeacherController) teacher(c *fiber.Ctx) (*models.Teacher, error) {
	id, ok := userID(c)
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return tc.Svc.TeacherFor(c.UserContext(), id)
}

// ListQuizzes godoc
// @Summary Teacher dashboard
// @Tags teacher
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /teacher/quizzes [get]
func (tc *TeacherController) ListQuizzes(c *fiber.Ctx) error {
	teacher, err := tc.teacher(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}

	quizzes, err := tc.Svc.TeacherQuizzes(c.UserContext(), teacher.ID)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, quizzes)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Creates a quiz with a generated join code
// @Tags teacher
// @Accept json
// @Produce json
// @Param request body services.NewQuiz true "Quiz data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teacher/quizzes [post]
func (tc *TeacherController) CreateQuiz(c *fiber.Ctx) error {
	teacher, err := tc.teacher(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}

	var input services.NewQuiz
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	quiz, err := tc.Svc.CreateQuiz(c.UserContext(), teacher.ID, input)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, quiz)
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body services.NewQuestion true "Question data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teacher/quizzes/{id}/questions [post]
func (tc *TeacherController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	teacher, err := tc.teacher(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}

	var input services.NewQuestion
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	question, err := tc.Svc.AddQuestion(c.UserContext(), teacher.ID, quizID, input)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, question)
}

// GetResults godoc
// @Summary Results of a quiz
// @Description Every submitted result with student details and summary statistics
// @Tags teacher
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teacher/quizzes/{id}/results [get]
func (tc *TeacherController) GetResults(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	teacher, err := tc.teacher(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}

	report, err := tc.Svc.QuizReport(c.UserContext(), teacher.ID, quizID)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, report)
}

// GetLeaderboard godoc
// @Summary Leaderboard of a quiz
// @Description Top students by score, ties broken by student id
// @Tags teacher
// @Produce json
// @Param id path int true "Quiz ID"
// @Param limit query int false "Rows to return (1-100)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teacher/quizzes/{id}/leaderboard [get]
func (tc *TeacherController) GetLeaderboard(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	limit := c.QueryInt("limit", services.DefaultLeaderboardSize)
	if limit < 1 || limit > 100 {
		return utils.BadRequest(c, "limit must be between 1 and 100")
	}
	teacher, err := tc.teacher(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}

	rows, err := tc.Svc.Leaderboard(c.UserContext(), teacher.ID, quizID, limit)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, rows)
}
