package services

import (
	"strings"

	"classquiz/backend/models"
)

// Score is the graded outcome of one submission.
type Score struct {
	Total float64 `json:"total_score"`
	Max   float64 `json:"max_score"`
}

func (s Score) Percentage() float64 {
	return percent(s.Total, s.Max)
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// IsCorrect compares a raw submitted answer with the question's answer key.
// Short answers ignore case; choice questions need the exact option text.
func IsCorrect(q models.QuizQuestion, raw string) bool {
	answer := strings.TrimSpace(raw)
	switch q.Type {
	case models.QuestionShortAnswer:
		return strings.EqualFold(answer, strings.TrimSpace(q.CorrectAnswer))
	default:
		return answer == q.CorrectAnswer
	}
}

// Grade adds up the points of every correctly answered question. A question
// missing from answers counts as answered with an empty string.
func Grade(questions []models.QuizQuestion, answers map[uint]string) Score {
	var s Score
	for _, q := range questions {
		if IsCorrect(q, answers[q.ID]) {
			s.Total += q.Score
		}
		s.Max += q.Score
	}
	return s
}

// Aggregate returns the max and the mean of scores, zeros for none.
func Aggregate(scores []float64) (top, avg float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	top = scores[0]
	sum := 0.0
	for _, v := range scores {
		if v > top {
			top = v
		}
		sum += v
	}
	return top, sum / float64(len(scores))
}
