package services

import (
	"context"

	"classquiz/backend/events"
	"classquiz/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Submission is the outcome of a graded attempt.
type Submission struct {
	Result     models.Result `json:"result"`
	Score      Score         `json:"score"`
	Percentage float64       `json:"percentage"`
	TopScore   float64       `json:"top_score"`
	ScoreAvg   float64       `json:"score_avg"`
}

// Submit grades answers for the student's single attempt at a quiz and
// folds the score into the quiz aggregates. The quiz row stays locked from
// the guards until the Result is written.
func (s *Service) Submit(ctx context.Context, studentID, quizID uint, answers map[uint]string) (*Submission, error) {
	var out Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&quiz, quizID).Error; err != nil {
			if notFound(err) {
				return ErrQuizNotFound
			}
			return persistence("lock quiz", err)
		}

		if err := checkAttemptGuards(tx, studentID, quizID); err != nil {
			return err
		}

		questions, err := quizQuestions(tx, quizID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return ErrEmptyQuiz
		}

		score := Grade(questions, answers)

		var scores []float64
		if err := tx.Model(&models.Result{}).Where("quiz_id = ?", quizID).Pluck("score", &scores).Error; err != nil {
			return persistence("load scores", err)
		}
		top, avg := Aggregate(append(scores, score.Total))

		if err := tx.Model(&quiz).Updates(map[string]interface{}{
			"top_score": top,
			"score_avg": avg,
		}).Error; err != nil {
			return persistence("update quiz stats", err)
		}

		out.Result = models.Result{
			Score:     score.Total,
			TopScore:  top,
			ScoreAvg:  avg,
			StudentID: studentID,
			QuizID:    quizID,
		}
		if err := tx.Create(&out.Result).Error; err != nil {
			return persistence("create result", err)
		}

		out.Score = score
		out.Percentage = score.Percentage()
		out.TopScore = top
		out.ScoreAvg = avg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("student %d submitted quiz %d: %.2f/%.2f", studentID, quizID, out.Score.Total, out.Score.Max)
	s.afterSubmit(ctx, &out)
	return &out, nil
}

// afterSubmit feeds the committed result to the leaderboard and event stream.
func (s *Service) afterSubmit(ctx context.Context, sub *Submission) {
	r := sub.Result
	if err := s.leaderboard.Record(ctx, r.QuizID, r.StudentID, r.Score); err != nil {
		s.logger.Printf("leaderboard record quiz %d: %v", r.QuizID, err)
	}

	ev := events.ResultSubmitted{
		ResultID:    r.ID,
		QuizID:      r.QuizID,
		StudentID:   r.StudentID,
		Score:       r.Score,
		MaxScore:    sub.Score.Max,
		Percentage:  sub.Percentage,
		TopScore:    sub.TopScore,
		ScoreAvg:    sub.ScoreAvg,
		SubmittedAt: r.CreatedAt,
	}
	if err := s.publisher.PublishResult(ctx, ev); err != nil {
		s.logger.Printf("publish result %d: %v", r.ID, err)
	}
}
