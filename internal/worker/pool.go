package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/models"
)

const (
	statsRefreshQueue = "queue:stats-refresh"
	popTimeout        = 30 * time.Second
	refreshLockTTL    = 30 * time.Second
)

// RefreshJob asks for one user's cached stats to be recomputed.
type RefreshJob struct {
	UserID     uuid.UUID `json:"user_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type statsRefresher interface {
	Refresh(ctx context.Context, viewer uuid.UUID) (*models.StudyStats, error)
}

// JobQueue is the queue a Pool drains.
type JobQueue interface {
	Pop(ctx context.Context, timeout time.Duration) (string, error)
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisQueue is a Redis list of refresh jobs.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Enqueue pushes one refresh job per user.
func (q *RedisQueue) Enqueue(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	payloads := make([]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		raw, err := json.Marshal(RefreshJob{UserID: id, EnqueuedAt: now})
		if err != nil {
			return err
		}
		payloads = append(payloads, raw)
	}
	return q.client.RPush(ctx, statsRefreshQueue, payloads...).Err()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	result, err := q.client.BLPop(ctx, timeout, statsRefreshQueue).Result()
	if err != nil {
		return "", err
	}
	if len(result) < 2 {
		return "", redis.Nil
	}
	return result[1], nil
}

func (q *RedisQueue) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return q.client.SetNX(ctx, key, "1", ttl).Result()
}

// Pool recomputes stats for users whose cache entry was dropped, so the
// next dashboard load is served from cache.
type Pool struct {
	queue       JobQueue
	stats       statsRefresher
	workerCount int
	stopChan    chan struct{}
}

func NewPool(queue JobQueue, stats statsRefresher, workerCount int) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Pool{
		queue:       queue,
		stats:       stats,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	logging.Info().Int("workers", p.workerCount).Msg("stats refresh workers started")
}

func (p *Pool) Stop() {
	select {
	case <-p.stopChan:
	default:
		close(p.stopChan)
	}
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			logging.Debug().Int("worker", id).Msg("stats refresh worker shutting down")
			return
		default:
		}

		ctx := context.Background()

		raw, err := p.queue.Pop(ctx, popTimeout)
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logging.Warn().Err(err).Int("worker", id).Msg("stats refresh: pop failed")
				time.Sleep(time.Second)
			}
			continue // Timeout or error, retry
		}

		if err := p.process(ctx, raw); err != nil {
			logging.Warn().Err(err).Int("worker", id).Msg("stats refresh failed")
		}
	}
}

func (p *Pool) process(ctx context.Context, raw string) error {
	var job RefreshJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return fmt.Errorf("failed to parse job: %w", err)
	}
	if job.UserID == uuid.Nil {
		return errors.New("job has no user_id")
	}

	// Bursts of logs in one group enqueue the same user repeatedly.
	locked, err := p.queue.Lock(ctx, "stats_refresh_lock:"+job.UserID.String(), refreshLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}

	// A read that raced the insert may have re-cached an old snapshot, so the
	// cache is overwritten rather than consulted.
	if _, err := p.stats.Refresh(ctx, job.UserID); err != nil {
		return fmt.Errorf("refresh stats for %s: %w", job.UserID, err)
	}
	return nil
}
