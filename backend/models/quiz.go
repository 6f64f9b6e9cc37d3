package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

type Quiz struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"quiz_name"`
	Code      string    `gorm:"uniqueIndex;size:20;not null" json:"quiz_code"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	TopScore  float64   `gorm:"not null;default:0" json:"top_score"`
	ScoreAvg  float64   `gorm:"not null;default:0" json:"score_avg"`
	TeacherID uint      `gorm:"index;not null" json:"teacher_id"`
	Teacher   *Teacher  `json:"teacher,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Questions []QuizQuestion `json:"questions,omitempty"`
}

func (Quiz) TableName() string { return "quizzes" }

type QuizQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	QuizID        uint                        `gorm:"index;not null" json:"quiz_id"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Type          string                      `gorm:"size:50;not null" json:"question_type"`
	Choices       datatypes.JSONSlice[string] `json:"choices"`
	CorrectAnswer string                      `gorm:"not null" json:"correct_answer"`
	Score         float64                     `gorm:"not null;default:0" json:"score"`
	CreatedAt     time.Time                   `json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

// StudentQuiz is an enrollment: the student may attempt the quiz.
type StudentQuiz struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"uniqueIndex:idx_student_quiz;not null" json:"student_id"`
	QuizID    uint      `gorm:"uniqueIndex:idx_student_quiz;not null" json:"quiz_id"`
	CreatedAt time.Time `json:"joined_at"`
}

func (StudentQuiz) TableName() string { return "student_quizzes" }

// Result is the single graded attempt of a student at a quiz. TopScore and
// ScoreAvg are a snapshot of the quiz aggregates right after this submission.
type Result struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Score     float64   `gorm:"not null" json:"score"`
	TopScore  float64   `gorm:"not null" json:"top_score"`
	ScoreAvg  float64   `gorm:"not null" json:"score_avg"`
	StudentID uint      `gorm:"uniqueIndex:idx_result_student_quiz;not null" json:"student_id"`
	QuizID    uint      `gorm:"uniqueIndex:idx_result_student_quiz;index;not null" json:"quiz_id"`
	CreatedAt time.Time `json:"submitted_at"`
}

func (Result) TableName() string { return "results" }

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Student{},
		&Teacher{},
		&Quiz{},
		&QuizQuestion{},
		&StudentQuiz{},
		&Result{},
	}
}
