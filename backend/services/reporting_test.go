package services

import (
	"context"
	"errors"
	"testing"

	"classquiz/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizReport(t *testing.T) {
	svc, db := newTestService(t)
	teacher := seedTeacher(t, db, "kim")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 5), shortQuestion("Q2", "b", 15))
	q1, q2 := quiz.Questions[0].ID, quiz.Questions[1].ID
	ctx := context.Background()

	ana := seedStudent(t, db, "ana")
	ben := seedStudent(t, db, "ben")
	for _, st := range []uint{ana.ID, ben.ID} {
		enroll(t, db, st, quiz.ID)
	}
	_, err := svc.Submit(ctx, ana.ID, quiz.ID, map[uint]string{q1: "a"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ben.ID, quiz.ID, map[uint]string{q1: "a", q2: "b"})
	require.NoError(t, err)

	report, err := svc.QuizReport(ctx, teacher.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalQuestions)
	assert.Equal(t, 20.0, report.TotalPossibleScore)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "ben", report.Results[0].StudentName)
	assert.Equal(t, "R-ben", report.Results[0].RollNo)
	assert.Equal(t, 100.0, report.Results[0].Percentage)
	assert.Equal(t, 25.0, report.Results[1].Percentage)

	assert.Equal(t, ResultStats{
		TotalStudents:     2,
		HighestScore:      20,
		LowestScore:       5,
		AverageScore:      12.5,
		TotalPossible:     20,
		AveragePercentage: 62.5,
	}, report.Stats)
}

func TestQuizReportGuards(t *testing.T) {
	svc, db := newTestService(t)
	owner := seedTeacher(t, db, "kim")
	other := seedTeacher(t, db, "lee")
	quiz := seedQuiz(t, db, owner.ID)
	ctx := context.Background()

	_, err := svc.QuizReport(ctx, owner.ID, 404)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = svc.QuizReport(ctx, other.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrOwnershipViolation)

	report, err := svc.QuizReport(ctx, owner.ID, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, ResultStats{}, report.Stats)
}

func TestStudentResult(t *testing.T) {
	svc, db := newTestService(t)
	teacher := seedTeacher(t, db, "kim")
	student := seedStudent(t, db, "ana")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 3), shortQuestion("Q2", "b", 1))
	ctx := context.Background()

	_, err := svc.StudentResult(ctx, student.ID, 404)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = svc.StudentResult(ctx, student.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	enroll(t, db, student.ID, quiz.ID)
	_, err = svc.StudentResult(ctx, student.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.Submit(ctx, student.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "A"})
	require.NoError(t, err)

	got, err := svc.StudentResult(ctx, student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Result.Score)
	assert.Equal(t, 4.0, got.TotalPossibleScore)
	assert.Equal(t, 75.0, got.Percentage)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "a", got.Questions[0].CorrectAnswer)
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]ResultRow{{Score: 2}, {Score: 8}}, 0)
	assert.Equal(t, 8.0, stats.HighestScore)
	assert.Equal(t, 2.0, stats.LowestScore)
	assert.Equal(t, 5.0, stats.AverageScore)
	assert.Zero(t, stats.AveragePercentage)
}

func TestStudentQuizzes(t *testing.T) {
	svc, db := newTestService(t)
	teacher := seedTeacher(t, db, "kim")
	student := seedStudent(t, db, "ana")
	first := seedQuiz(t, db, teacher.ID, shortQuestion("Q", "a", 2))
	second := seedQuiz(t, db, teacher.ID, shortQuestion("Q", "a", 2))
	seedQuiz(t, db, teacher.ID)
	enroll(t, db, student.ID, first.ID)
	enroll(t, db, student.ID, second.ID)
	ctx := context.Background()

	_, err := svc.Submit(ctx, student.ID, second.ID, map[uint]string{second.Questions[0].ID: "a"})
	require.NoError(t, err)

	list, err := svc.StudentQuizzes(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].Quiz.ID)
	assert.False(t, list[0].Submitted)
	assert.Nil(t, list[0].Score)
	assert.True(t, list[1].Submitted)
	require.NotNil(t, list[1].Score)
	assert.Equal(t, 2.0, *list[1].Score)

	quizzes, err := svc.TeacherQuizzes(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, quizzes, 3)
}

func TestLeaderboardFallsBackToResults(t *testing.T) {
	lb := &recordingLeaderboard{err: errors.New("down")}
	svc, db := newTestService(t, WithLeaderboard(lb))
	teacher := seedTeacher(t, db, "kim")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 1), shortQuestion("Q2", "b", 1))
	ctx := context.Background()

	ana := seedStudent(t, db, "ana")
	ben := seedStudent(t, db, "ben")
	enroll(t, db, ana.ID, quiz.ID)
	enroll(t, db, ben.ID, quiz.ID)
	_, err := svc.Submit(ctx, ana.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "a"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ben.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "a", quiz.Questions[1].ID: "b"})
	require.NoError(t, err)

	rows, err := svc.Leaderboard(ctx, teacher.ID, quiz.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, LeaderboardRow{Rank: 1, StudentID: ben.ID, StudentName: "ben", Score: 2}, rows[0])
	assert.Equal(t, 2, rows[1].Rank)

	rows, err = svc.Leaderboard(ctx, teacher.ID, quiz.ID, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLeaderboardReadsCache(t *testing.T) {
	lb := &recordingLeaderboard{}
	svc, db := newTestService(t, WithLeaderboard(lb))
	teacher := seedTeacher(t, db, "kim")
	other := seedTeacher(t, db, "lee")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 1), shortQuestion("Q2", "b", 1))
	ctx := context.Background()

	ana := seedStudent(t, db, "ana")
	ben := seedStudent(t, db, "ben")
	cal := seedStudent(t, db, "cal")
	for _, st := range []models.Student{ana, ben, cal} {
		enroll(t, db, st.ID, quiz.ID)
	}
	// ben is recorded before ana with the same score
	_, err := svc.Submit(ctx, cal.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "a", quiz.Questions[1].ID: "b"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ben.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "a"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, ana.ID, quiz.ID, map[uint]string{quiz.Questions[1].ID: "b"})
	require.NoError(t, err)

	rows, err := svc.Leaderboard(ctx, teacher.ID, quiz.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, LeaderboardRow{Rank: 1, StudentID: cal.ID, StudentName: "cal", Score: 2}, rows[0])
	assert.Equal(t, LeaderboardRow{Rank: 2, StudentID: ana.ID, StudentName: "ana", Score: 1}, rows[1])
	assert.Equal(t, 1, lb.reads)

	_, err = svc.Leaderboard(ctx, other.ID, quiz.ID, 5)
	assert.ErrorIs(t, err, ErrOwnershipViolation)
}

func TestLeaderboardRecoversFromPartialCache(t *testing.T) {
	lb := &recordingLeaderboard{}
	svc, db := newTestService(t, WithLeaderboard(lb))
	teacher := seedTeacher(t, db, "kim")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 10))
	ctx := context.Background()

	ana := seedStudent(t, db, "ana")
	ben := seedStudent(t, db, "ben")
	enroll(t, db, ana.ID, quiz.ID)
	enroll(t, db, ben.ID, quiz.ID)

	lb.fail(errors.New("down"))
	_, err := svc.Submit(ctx, ana.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "a"})
	require.NoError(t, err)
	lb.fail(nil)
	_, err = svc.Submit(ctx, ben.ID, quiz.ID, map[uint]string{quiz.Questions[0].ID: "x"})
	require.NoError(t, err)
	require.Len(t, lb.entries[quiz.ID], 1)

	rows, err := svc.Leaderboard(ctx, teacher.ID, quiz.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, LeaderboardRow{Rank: 1, StudentID: ana.ID, StudentName: "ana", Score: 10}, rows[0])
	assert.Equal(t, LeaderboardRow{Rank: 2, StudentID: ben.ID, StudentName: "ben", Score: 0}, rows[1])
}

func TestLeaderboardWithoutResults(t *testing.T) {
	lb := &recordingLeaderboard{}
	svc, db := newTestService(t, WithLeaderboard(lb))
	teacher := seedTeacher(t, db, "kim")
	quiz := seedQuiz(t, db, teacher.ID, shortQuestion("Q1", "a", 1))

	rows, err := svc.Leaderboard(context.Background(), teacher.ID, quiz.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, lb.reads)
}
