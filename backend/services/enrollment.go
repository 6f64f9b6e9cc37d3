package services

import (
	"context"

	"classquiz/backend/models"
	"classquiz/backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentStatus int

const (
	Joined EnrollmentStatus = iota + 1
	AlreadyEnrolled
)

func (s EnrollmentStatus) String() string {
	switch s {
	case Joined:
		return "joined"
	case AlreadyEnrolled:
		return "already_enrolled"
	default:
		return "unknown"
	}
}

type Enrollment struct {
	Status EnrollmentStatus
	Quiz   models.Quiz
}

// Join enrolls the student in the quiz with the given join code. Joining twice
// is not an error: the second call reports AlreadyEnrolled and writes nothing.
func (s *Service) Join(ctx context.Context, studentID uint, code string) (*Enrollment, error) {
	code = utils.NormalizeJoinCode(code)
	if code == "" {
		return nil, ErrQuizNotFound
	}

	var out Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", code).First(&out.Quiz).Error; err != nil {
			if notFound(err) {
				return ErrQuizNotFound
			}
			return persistence("find quiz by code", err)
		}

		enrolled, err := isEnrolled(tx, studentID, out.Quiz.ID)
		if err != nil {
			return err
		}
		if enrolled {
			out.Status = AlreadyEnrolled
			return nil
		}

		if err := tx.Create(&models.StudentQuiz{StudentID: studentID, QuizID: out.Quiz.ID}).Error; err != nil {
			return persistence("create enrollment", err)
		}
		out.Status = Joined
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Status == Joined {
		s.logger.Printf("student %d joined quiz %d", studentID, out.Quiz.ID)
	}
	return &out, nil
}

func isEnrolled(db *gorm.DB, studentID, quizID uint) (bool, error) {
	var n int64
	if err := db.Model(&models.StudentQuiz{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&n).Error; err != nil {
		return false, persistence("check enrollment", err)
	}
	return n > 0, nil
}

func hasResult(db *gorm.DB, studentID, quizID uint) (bool, error) {
	var n int64
	if err := db.Model(&models.Result{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&n).Error; err != nil {
		return false, persistence("check result", err)
	}
	return n > 0, nil
}

// checkAttemptGuards fails with ErrNotEnrolled or ErrAlreadySubmitted, in that order.
func checkAttemptGuards(db *gorm.DB, studentID, quizID uint) error {
	enrolled, err := isEnrolled(db, studentID, quizID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	submitted, err := hasResult(db, studentID, quizID)
	if err != nil {
		return err
	}
	if submitted {
		return ErrAlreadySubmitted
	}
	return nil
}
