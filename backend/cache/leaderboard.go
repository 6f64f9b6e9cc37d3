package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is one ranked student of a quiz leaderboard.
type Entry struct {
	StudentID uint    `json:"student_id"`
	Score     float64 `json:"score"`
}

// Leaderboard keeps the best scores of every quiz in rank order.
type Leaderboard interface {
	Record(ctx context.Context, quizID, studentID uint, score float64) error
	Top(ctx context.Context, quizID uint, n int) ([]Entry, error)
}

type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	Timeout     time.Duration
}

// Redis stores one sorted set per quiz, scored by the result score.
type Redis struct {
	Client *redis.Client
}

func NewRedisLeaderboard(ctx context.Context, cfg Config) (*Redis, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}
	return &Redis{Client: client}, nil
}

func key(quizID uint) string {
	return "leaderboard:quiz:" + strconv.FormatUint(uint64(quizID), 10)
}

// Record sets the student's score; a student has at most one result per quiz.
func (r *Redis) Record(ctx context.Context, quizID, studentID uint, score float64) error {
	return r.Client.ZAdd(ctx, key(quizID), redis.Z{
		Score:  score,
		Member: strconv.FormatUint(uint64(studentID), 10),
	}).Err()
}

func (r *Redis) Top(ctx context.Context, quizID uint, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := r.Client.ZRevRangeWithScores(ctx, key(quizID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member := fmt.Sprintf("%v", z.Member)
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad leaderboard member %q: %w", member, err)
		}
		entries = append(entries, Entry{StudentID: uint(id), Score: z.Score})
	}
	return entries, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// Nop is used when no Redis address is configured.
type Nop struct{}

func (Nop) Record(context.Context, uint, uint, float64) error { return nil }
func (Nop) Top(context.Context, uint, int) ([]Entry, error) { return nil, nil }
