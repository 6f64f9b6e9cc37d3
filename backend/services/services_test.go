package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"classquiz/backend/cache"
	"classquiz/backend/config"
	"classquiz/backend/events"
	"classquiz/backend/models"
	"classquiz/backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory database named after the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := utils.InitDB(&config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, utils.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, nil, opts...), db
}

func seedTeacher(t *testing.T, db *gorm.DB, name string) models.Teacher {
	t.Helper()
	teacher := models.Teacher{Name: name, Email: name + "@school.test", Department: "Science"}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func seedStudent(t *testing.T, db *gorm.DB, name string) models.Student {
	t.Helper()
	student := models.Student{Name: name, Email: name + "@school.test", RollNo: "R-" + name, ClassLabel: "10A"}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedQuiz(t *testing.T, db *gorm.DB, teacherID uint, questions ...models.QuizQuestion) models.Quiz {
	t.Helper()
	quiz := models.Quiz{Name: "Quiz", Code: utils.GenerateJoinCode(), Subject: "Geography", TeacherID: teacherID}
	require.NoError(t, db.Create(&quiz).Error)
	for i := range questions {
		questions[i].QuizID = quiz.ID
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	quiz.Questions = questions
	return quiz
}

func enroll(t *testing.T, db *gorm.DB, studentID, quizID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.StudentQuiz{StudentID: studentID, QuizID: quizID}).Error)
}

func choiceQuestion(text, correct string, score float64, choices ...string) models.QuizQuestion {
	return models.QuizQuestion{
		Question:      text,
		Type:          models.QuestionMultipleChoice,
		Choices:       datatypes.JSONSlice[string](choices),
		CorrectAnswer: correct,
		Score:         score,
	}
}

func shortQuestion(text, correct string, score float64) models.QuizQuestion {
	return models.QuizQuestion{
		Question:      text,
		Type:          models.QuestionShortAnswer,
		Choices:       datatypes.JSONSlice[string]{},
		CorrectAnswer: correct,
		Score:         score,
	}
}

type recordingLeaderboard struct {
	mu      sync.Mutex
	entries map[uint][]cache.Entry
	err     error
	reads   int
}

func (r *recordingLeaderboard) Record(_ context.Context, quizID, studentID uint, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.entries == nil {
		r.entries = map[uint][]cache.Entry{}
	}
	r.entries[quizID] = append(r.entries[quizID], cache.Entry{StudentID: studentID, Score: score})
	return nil
}

func (r *recordingLeaderboard) Top(_ context.Context, quizID uint, n int) ([]cache.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	entries := r.entries[quizID]
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ResultSubmitted
	err    error
}

func (p *recordingPublisher) PublishResult(_ context.Context, ev events.ResultSubmitted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (r *recordingLeaderboard) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
