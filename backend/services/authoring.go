package services

import (
	"context"
	"errors"
	"strings"

	"classquiz/backend/models"
	"classquiz/backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxCodeAttempts = 5
	maxChoices      = 4
)

var errCodeExhausted = errors.New("could not generate a unique join code")

type NewQuiz struct {
	Name    string `json:"quiz_name" validate:"required,max=200"`
	Subject string `json:"subject" validate:"max=100"`
	Topic   string `json:"topic" validate:"max=100"`
}

type NewQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Type          string   `json:"question_type" validate:"oneof=multiple_choice true_false short_answer"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
	Score         float64  `json:"score" validate:"gte=0"`
}

// SheetQuestion is a question as shown to a student taking the quiz.
type SheetQuestion struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"question_type"`
	Choices  []string `json:"choices"`
	Score    float64  `json:"score"`
}

type QuizSheet struct {
	Quiz      models.Quiz     `json:"quiz"`
	Questions []SheetQuestion `json:"questions"`
}

// CreateQuiz stores a quiz with a fresh join code and zeroed statistics.
func (s *Service) CreateQuiz(ctx context.Context, teacherID uint, in NewQuiz) (*models.Quiz, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Topic = strings.TrimSpace(in.Topic)
	if err := checkStruct(in).err(); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{Name: in.Name, Subject: in.Subject, Topic: in.Topic, TeacherID: teacherID}

	db := s.db.WithContext(ctx)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := utils.GenerateJoinCode()
		var taken int64
		if err := db.Model(&models.Quiz{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return nil, persistence("check join code", err)
		}
		if taken > 0 {
			continue
		}

		quiz.Code = code
		if err := db.Create(quiz).Error; err != nil {
			return nil, persistence("create quiz", err)
		}
		s.logger.Printf("teacher %d created quiz %d (%s)", teacherID, quiz.ID, quiz.Code)
		return quiz, nil
	}
	return nil, persistence("create quiz", errCodeExhausted)
}

// ownedQuiz loads a quiz and checks that teacherID owns it.
func ownedQuiz(db *gorm.DB, teacherID, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if notFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, persistence("find quiz", err)
	}
	if quiz.TeacherID != teacherID {
		return nil, ErrOwnershipViolation
	}
	return &quiz, nil
}

func (in *NewQuestion) normalize() fieldErrors {
	in.Question = strings.TrimSpace(in.Question)
	in.Type = strings.TrimSpace(in.Type)
	in.CorrectAnswer = strings.TrimSpace(in.CorrectAnswer)

	errs := checkStruct(in)

	switch in.Type {
	case models.QuestionMultipleChoice:
		choices := make([]string, 0, len(in.Choices))
		for _, c := range in.Choices {
			if c = strings.TrimSpace(c); c != "" {
				choices = append(choices, c)
			}
		}
		in.Choices = choices
		if len(choices) < 2 || len(choices) > maxChoices {
			errs["choices"] = "between 2 and 4 options required"
		}
		found := false
		for _, c := range choices {
			if c == in.CorrectAnswer {
				found = true
			}
		}
		if !found {
			errs["correct_answer"] = "must be one of the choices"
		}
	case models.QuestionTrueFalse:
		in.Choices = []string{"True", "False"}
		if in.CorrectAnswer != "True" && in.CorrectAnswer != "False" {
			errs["correct_answer"] = "must be True or False"
		}
	case models.QuestionShortAnswer:
		in.Choices = []string{}
		if in.CorrectAnswer == "" {
			errs["correct_answer"] = "required"
		}
	}
	return errs
}

// AddQuestion appends a question to a quiz owned by teacherID.
func (s *Service) AddQuestion(ctx context.Context, teacherID, quizID uint, in NewQuestion) (*models.QuizQuestion, error) {
	db := s.db.WithContext(ctx)
	if _, err := ownedQuiz(db, teacherID, quizID); err != nil {
		return nil, err
	}
	if err := in.normalize().err(); err != nil {
		return nil, err
	}

	question := &models.QuizQuestion{
		QuizID:        quizID,
		Question:      in.Question,
		Type:          in.Type,
		Choices:       datatypes.JSONSlice[string](in.Choices),
		CorrectAnswer: in.CorrectAnswer,
		Score:         in.Score,
	}
	if err := db.Create(question).Error; err != nil {
		return nil, persistence("create question", err)
	}
	return question, nil
}

func (s *Service) TeacherQuizzes(ctx context.Context, teacherID uint) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	if err := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("id").Find(&quizzes).Error; err != nil {
		return nil, persistence("list quizzes", err)
	}
	return quizzes, nil
}

// TakeQuiz returns the question sheet, without answer keys, of a quiz the
// student is enrolled in and has not submitted yet.
func (s *Service) TakeQuiz(ctx context.Context, studentID, quizID uint) (*QuizSheet, error) {
	db := s.db.WithContext(ctx)

	var quiz models.Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if notFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, persistence("find quiz", err)
	}

	if err := checkAttemptGuards(db, studentID, quizID); err != nil {
		return nil, err
	}

	questions, err := quizQuestions(db, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	sheet := &QuizSheet{Quiz: quiz, Questions: make([]SheetQuestion, 0, len(questions))}
	for _, q := range questions {
		choices := []string(q.Choices)
		if choices == nil {
			choices = []string{}
		}
		sheet.Questions = append(sheet.Questions, SheetQuestion{
			ID:       q.ID,
			Question: q.Question,
			Type:     q.Type,
			Choices:  choices,
			Score:    q.Score,
		})
	}
	return sheet, nil
}

func quizQuestions(db *gorm.DB, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).Order("id").Find(&questions).Error; err != nil {
		return nil, persistence("load questions", err)
	}
	return questions, nil
}
