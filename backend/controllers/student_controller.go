package controllers

import (
	"log"
	"strconv"
	"strings"

	"classquiz/backend/config"
	"classquiz/backend/models"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct {
	Svc    *services.Service
	Cfg    *config.Config
	Logger *log.Logger
}

func NewStudentController(svc *services.Service, cfg *config.Config, logger *log.Logger) *StudentController {
	return &StudentController{Svc: svc, Cfg: cfg, Logger: logger}
}

type JoinRequest struct {
	Code string `json:"code" example:"A1B2C3D4"`
}

// SubmitRequest maps question ids to answers. Keys are "12" or "question_12".
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

func (r SubmitRequest) parse() (map[uint]string, error) {
	answers := make(map[uint]string, len(r.Answers))
	for key, answer := range r.Answers {
		id, err := strconv.ParseUint(strings.TrimPrefix(key, "question_"), 10, 64)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid answer key "+strconv.Quote(key))
		}
		answers[uint(id)] = answer
	}
	return answers, nil
}

func (sc *StudentController) student(c *fiber.Ctx) (*models.Student, error) {
	id, ok := userID(c)
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return sc.Svc.StudentFor(c.UserContext(), id)
}

// ListQuizzes godoc
// @Summary Student dashboard
// @Description Enrolled quizzes with the student's score once submitted
// @Tags student
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /student/quizzes [get]
func (sc *StudentController) ListQuizzes(c *fiber.Ctx) error {
	student, err := sc.student(c)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	quizzes, err := sc.Svc.StudentQuizzes(c.UserContext(), student.ID)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, quizzes)
}

// JoinQuiz godoc
// @Summary Join a quiz by code
// @Description The code comes from the JSON body or the code query parameter
// @Tags student
// @Accept json
// @Produce json
// @Param request body JoinRequest false "Join code"
// @Param code query string false "Join code"
// @Success 200 {object} utils.SuccessResponse "already enrolled"
// @Success 201 {object} utils.SuccessResponse "joined"
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /student/quizzes/join [post]
func (sc *StudentController) JoinQuiz(c *fiber.Ctx) error {
	code := c.Query("code")
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		var input JoinRequest
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
		if input.Code != "" {
			code = input.Code
		}
	}
	if strings.TrimSpace(code) == "" {
		return utils.ValidationError(c, map[string]string{"code": "required"})
	}

	student, err := sc.student(c)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	enrollment, err := sc.Svc.Join(c.UserContext(), student.ID, code)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	data := fiber.Map{"status": enrollment.Status.String(), "quiz": enrollment.Quiz}
	if enrollment.Status == services.AlreadyEnrolled {
		return utils.Message(c, fiber.StatusOK, "You are already enrolled in this quiz", data)
	}
	return utils.Message(c, fiber.StatusCreated, "Joined quiz "+enrollment.Quiz.Name, data)
}

// TakeQuiz godoc
// @Summary Question sheet of a quiz
// @Tags student
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /student/quizzes/{id} [get]
func (sc *StudentController) TakeQuiz(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	student, err := sc.student(c)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	sheet, err := sc.Svc.TakeQuiz(c.UserContext(), student.ID, quizID)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, sheet)
}

// SubmitQuiz godoc
// @Summary Submit answers
// @Tags student
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body SubmitRequest true "Answers keyed by question id"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /student/quizzes/{id}/submit [post]
func (sc *StudentController) SubmitQuiz(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var input SubmitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	answers, err := input.parse()
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	student, err := sc.student(c)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	submission, err := sc.Svc.Submit(c.UserContext(), student.ID, quizID, answers)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return utils.Message(c, fiber.StatusCreated, "Quiz submitted", submission)
}

// GetResult godoc
// @Summary Student's own result
// @Tags student
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /student/quizzes/{id}/result [get]
func (sc *StudentController) GetResult(c *fiber.Ctx) error {
	quizID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	student, err := sc.student(c)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}

	report, err := sc.Svc.StudentResult(c.UserContext(), student.ID, quizID)
	if err != nil {
		return respondError(c, sc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, report)
}
