package services

import (
	"context"
	"sort"
	"time"

	"classquiz/backend/cache"
	"classquiz/backend/models"

	"gorm.io/gorm"
)

const DefaultLeaderboardSize = 10

// ResultRow is one student's result as listed in the teacher report.
type ResultRow struct {
	ResultID     uint    `json:"result_id"`
	Score        float64 `json:"score"`
	TopScore     float64 `json:"top_score"`
	ScoreAvg     float64 `json:"score_avg"`
	Percentage   float64 `json:"percentage"`
	StudentID    uint    `json:"student_id"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email"`
	RollNo       string  `json:"roll_no"`
}

type ResultStats struct {
	TotalStudents     int     `json:"total_students"`
	HighestScore      float64 `json:"highest_score"`
	LowestScore       float64 `json:"lowest_score"`
	AverageScore      float64 `json:"average_score"`
	TotalPossible     float64 `json:"total_possible"`
	AveragePercentage float64 `json:"average_percentage"`
}

type QuizReport struct {
	Quiz               models.Quiz `json:"quiz"`
	TotalQuestions     int         `json:"total_questions"`
	TotalPossibleScore float64     `json:"total_possible_score"`
	Results            []ResultRow `json:"results"`
	Stats              ResultStats `json:"stats"`
}

type StudentReport struct {
	Quiz               models.Quiz           `json:"quiz"`
	Result             models.Result         `json:"result"`
	TotalPossibleScore float64               `json:"total_possible_score"`
	Percentage         float64               `json:"percentage"`
	Questions          []models.QuizQuestion `json:"questions"`
}

// EnrolledQuiz is a student dashboard entry. Score is nil until submitted.
type EnrolledQuiz struct {
	Quiz      models.Quiz `json:"quiz"`
	JoinedAt  time.Time   `json:"joined_at"`
	Submitted bool        `json:"submitted"`
	Score     *float64    `json:"score"`
}

type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	Score       float64 `json:"score"`
}

// Summarize computes the report statistics for rows against the quiz maximum.
func Summarize(rows []ResultRow, totalPossible float64) ResultStats {
	stats := ResultStats{TotalStudents: len(rows), TotalPossible: totalPossible}
	if len(rows) == 0 {
		return stats
	}

	scores := make([]float64, len(rows))
	stats.LowestScore = rows[0].Score
	for i, r := range rows {
		scores[i] = r.Score
		if r.Score < stats.LowestScore {
			stats.LowestScore = r.Score
		}
	}
	stats.HighestScore, stats.AverageScore = Aggregate(scores)
	stats.AveragePercentage = percent(stats.AverageScore, totalPossible)
	return stats
}

func possibleScore(questions []models.QuizQuestion) float64 {
	total := 0.0
	for _, q := range questions {
		total += q.Score
	}
	return total
}

// QuizReport lists every result of a quiz owned by teacherID, best first.
func (s *Service) QuizReport(ctx context.Context, teacherID, quizID uint) (*QuizReport, error) {
	db := s.db.WithContext(ctx)
	quiz, err := ownedQuiz(db, teacherID, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := quizQuestions(db, quizID)
	if err != nil {
		return nil, err
	}
	total := possibleScore(questions)

	rows := []ResultRow{}
	err = db.Table("results").
		Select("results.id AS result_id, results.score, results.top_score, results.score_avg, " +
			"students.id AS student_id, students.name AS student_name, " +
			"students.email AS student_email, students.roll_no").
		Joins("JOIN students ON students.id = results.student_id").
		Where("results.quiz_id = ?", quizID).
		Order("results.score DESC, results.id").
		Scan(&rows).Error
	if err != nil {
		return nil, persistence("load results", err)
	}
	for i := range rows {
		rows[i].Percentage = percent(rows[i].Score, total)
	}

	return &QuizReport{
		Quiz:               *quiz,
		TotalQuestions:     len(questions),
		TotalPossibleScore: total,
		Results:            rows,
		Stats:              Summarize(rows, total),
	}, nil
}

// StudentResult returns the student's graded attempt with the answer key.
func (s *Service) StudentResult(ctx context.Context, studentID, quizID uint) (*StudentReport, error) {
	db := s.db.WithContext(ctx)

	var quiz models.Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if notFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, persistence("find quiz", err)
	}

	enrolled, err := isEnrolled(db, studentID, quizID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	var result models.Result
	if err := db.Where("student_id = ? AND quiz_id = ?", studentID, quizID).First(&result).Error; err != nil {
		if notFound(err) {
			return nil, ErrResultNotFound
		}
		return nil, persistence("find result", err)
	}

	questions, err := quizQuestions(db, quizID)
	if err != nil {
		return nil, err
	}
	total := possibleScore(questions)

	return &StudentReport{
		Quiz:               quiz,
		Result:             result,
		TotalPossibleScore: total,
		Percentage:         percent(result.Score, total),
		Questions:          questions,
	}, nil
}

func (s *Service) StudentQuizzes(ctx context.Context, studentID uint) ([]EnrolledQuiz, error) {
	db := s.db.WithContext(ctx)

	var enrollments []models.StudentQuiz
	if err := db.Where("student_id = ?", studentID).Order("id").Find(&enrollments).Error; err != nil {
		return nil, persistence("list enrollments", err)
	}
	out := make([]EnrolledQuiz, 0, len(enrollments))
	if len(enrollments) == 0 {
		return out, nil
	}

	ids := make([]uint, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.QuizID
	}

	var quizzes []models.Quiz
	if err := db.Where("id IN ?", ids).Find(&quizzes).Error; err != nil {
		return nil, persistence("load quizzes", err)
	}
	byID := make(map[uint]models.Quiz, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = q
	}

	var results []models.Result
	if err := db.Where("student_id = ? AND quiz_id IN ?", studentID, ids).Find(&results).Error; err != nil {
		return nil, persistence("load results", err)
	}
	scores := make(map[uint]float64, len(results))
	for _, r := range results {
		scores[r.QuizID] = r.Score
	}

	for _, e := range enrollments {
		entry := EnrolledQuiz{Quiz: byID[e.QuizID], JoinedAt: e.CreatedAt}
		if score, ok := scores[e.QuizID]; ok {
			entry.Submitted = true
			entry.Score = &score
		}
		out = append(out, entry)
	}
	return out, nil
}

// Leaderboard returns the top n students of a quiz owned by teacherID,
// ordered by score with ties broken by student id. The cache is used only
// when it holds one entry per result; otherwise the results table answers.
func (s *Service) Leaderboard(ctx context.Context, teacherID, quizID uint, n int) ([]LeaderboardRow, error) {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}
	db := s.db.WithContext(ctx)
	if _, err := ownedQuiz(db, teacherID, quizID); err != nil {
		return nil, err
	}

	var total int64
	if err := db.Model(&models.Result{}).Where("quiz_id = ?", quizID).Count(&total).Error; err != nil {
		return nil, persistence("count results", err)
	}
	if total == 0 {
		return []LeaderboardRow{}, nil
	}

	entries, ok := s.cachedTop(ctx, quizID, int(total), n)
	if !ok {
		var err error
		if entries, err = topFromResults(db, quizID, n); err != nil {
			return nil, err
		}
	}
	return s.rank(db, entries)
}

// cachedTop reads the whole cached set so ties at the cut are settled the
// same way as in topFromResults. It reports false when the cache is off,
// failing or missing some of the quiz's results.
func (s *Service) cachedTop(ctx context.Context, quizID uint, total, n int) ([]cache.Entry, bool) {
	if _, nop := s.leaderboard.(cache.Nop); nop {
		return nil, false
	}
	entries, err := s.leaderboard.Top(ctx, quizID, total)
	if err != nil {
		s.logger.Printf("leaderboard read quiz %d: %v", quizID, err)
		return nil, false
	}
	if len(entries) != total {
		s.logger.Printf("leaderboard cache for quiz %d holds %d of %d results", quizID, len(entries), total)
		return nil, false
	}
	sorted := make([]cache.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].StudentID < sorted[j].StudentID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, true
}

func topFromResults(db *gorm.DB, quizID uint, n int) ([]cache.Entry, error) {
	var results []models.Result
	if err := db.Where("quiz_id = ?", quizID).Order("score DESC, student_id").Limit(n).Find(&results).Error; err != nil {
		return nil, persistence("load top results", err)
	}
	entries := make([]cache.Entry, len(results))
	for i, r := range results {
		entries[i] = cache.Entry{StudentID: r.StudentID, Score: r.Score}
	}
	return entries, nil
}

func (s *Service) rank(db *gorm.DB, entries []cache.Entry) ([]LeaderboardRow, error) {
	rows := make([]LeaderboardRow, 0, len(entries))
	if len(entries) == 0 {
		return rows, nil
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.StudentID
	}
	var students []models.Student
	if err := db.Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, persistence("load students", err)
	}
	names := make(map[uint]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}

	for i, e := range entries {
		rows = append(rows, LeaderboardRow{
			Rank:        i + 1,
			StudentID:   e.StudentID,
			StudentName: names[e.StudentID],
			Score:       e.Score,
		})
	}
	return rows, nil
}
