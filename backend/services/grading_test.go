package services

import (
	"testing"

	"classquiz/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name     string
		question models.QuizQuestion
		answer   string
		want     bool
	}{
		{"short answer ignores case", shortQuestion("Capital of France?", "Paris", 1), "paris", true},
		{"short answer trims", shortQuestion("Capital of France?", " Paris ", 1), "  PARIS\n", true},
		{"short answer wrong", shortQuestion("Capital of France?", "Paris", 1), "Lyon", false},
		{"choice exact", choiceQuestion("Capital?", "Paris", 1, "Paris", "Rome"), "Paris", true},
		{"choice is case sensitive", choiceQuestion("Capital?", "Paris", 1, "Paris", "Rome"), "paris", false},
		{"choice trims answer", choiceQuestion("Capital?", "Paris", 1, "Paris", "Rome"), " Paris ", true},
		{"true false is case sensitive", models.QuizQuestion{Type: models.QuestionTrueFalse, CorrectAnswer: "True"}, "true", false},
		{"true false exact", models.QuizQuestion{Type: models.QuestionTrueFalse, CorrectAnswer: "False"}, "False", true},
		{"missing answer", shortQuestion("Capital?", "Paris", 1), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.question, tt.answer))
		})
	}
}

func TestGrade(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: 1, Type: models.QuestionShortAnswer, CorrectAnswer: "Paris", Score: 5},
		{ID: 2, Type: models.QuestionMultipleChoice, CorrectAnswer: "4", Score: 10},
	}

	score := Grade(questions, map[uint]string{1: "paris", 2: "5"})
	assert.Equal(t, 5.0, score.Total)
	assert.Equal(t, 15.0, score.Max)
	assert.InDelta(t, 33.33, score.Percentage(), 0.01)

	score = Grade(questions, nil)
	assert.Equal(t, 0.0, score.Total)
	assert.Equal(t, 15.0, score.Max)
}

func TestPercentageZeroMax(t *testing.T) {
	questions := []models.QuizQuestion{{ID: 1, Type: models.QuestionShortAnswer, CorrectAnswer: "x", Score: 0}}
	score := Grade(questions, map[uint]string{1: "x"})
	assert.Equal(t, 0.0, score.Max)
	assert.Equal(t, 0.0, score.Percentage())
}

func TestAggregate(t *testing.T) {
	top, avg := Aggregate(nil)
	assert.Zero(t, top)
	assert.Zero(t, avg)

	top, avg = Aggregate([]float64{7})
	assert.Equal(t, 7.0, top)
	assert.Equal(t, 7.0, avg)

	top, avg = Aggregate([]float64{4, 10, 1})
	assert.Equal(t, 10.0, top)
	assert.Equal(t, 5.0, avg)
}
