package services

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/metrics"
	"studyhub-backend/internal/models"
)

const (
	reminderLastSentKeyPrefix = "reminder:streak:"
	userUpdatesChannelPrefix  = "user_updates:"
	streakAtRiskMessageType   = "streak_at_risk"
	reminderPollInterval      = 1 * time.Hour
	defaultReminderInterval   = 20 * time.Hour
)

// ReminderStore keeps last-sent timestamps and delivers messages to a
// user's realtime channel.
type ReminderStore interface {
	LastReminderSent(ctx context.Context, userID uuid.UUID) (string, error)
	MarkReminderSent(ctx context.Context, userID uuid.UUID, at time.Time) error
	PublishToUser(ctx context.Context, userID uuid.UUID, msg models.WSMessage) error
}

type RedisReminderStore struct {
	client *redis.Client
}

func NewRedisReminderStore(client *redis.Client) *RedisReminderStore {
	return &RedisReminderStore{client: client}
}

func (s *RedisReminderStore) LastReminderSent(ctx context.Context, userID uuid.UUID) (string, error) {
	v, err := s.client.Get(ctx, reminderLastSentKeyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisReminderStore) MarkReminderSent(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return s.client.Set(ctx, reminderLastSentKeyPrefix+userID.String(), at.UTC().Format(time.RFC3339), 7*24*time.Hour).Err()
}

func (s *RedisReminderStore) PublishToUser(ctx context.Context, userID uuid.UUID, msg models.WSMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, userUpdatesChannelPrefix+userID.String(), raw).Err()
}

// ReminderScheduler warns users whose streak ended yesterday and who have
// not studied yet today.
type ReminderScheduler struct {
	sessions     ActiveUserSource
	store        ReminderStore
	cal          analytics.Calendar
	lookbackDays int
	interval     time.Duration
	now          func() time.Time
	stopChan     chan struct{}
}

func NewReminderScheduler(
	sessions ActiveUserSource,
	store ReminderStore,
	cal analytics.Calendar,
	lookbackDays int,
	interval time.Duration,
) *ReminderScheduler {
	if lookbackDays <= 0 {
		lookbackDays = analytics.DefaultLookbackDays
	}
	if interval <= 0 {
		interval = defaultReminderInterval
	}
	return &ReminderScheduler{
		sessions:     sessions,
		store:        store,
		cal:          cal,
		lookbackDays: lookbackDays,
		interval:     interval,
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	if s.sessions == nil || s.store == nil {
		return
	}

	go s.loop()

	logging.Info().Dur("interval", s.interval).Msg("streak reminder scheduler started")
}

func (s *ReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.sendStreakReminders(context.Background(), s.now())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sendStreakReminders(context.Background(), s.now())
		}
	}
}

// sendStreakReminders returns how many reminders were published.
func (s *ReminderScheduler) sendStreakReminders(ctx context.Context, now time.Time) int {
	since := now.AddDate(0, 0, -s.lookbackDays)

	userIDs, err := s.sessions.ListActiveUserIDs(ctx, since)
	if err != nil {
		logging.Error().Err(err).Msg("streak reminders: failed to list active users")
		return 0
	}

	sent := 0
	for _, userID := range userIDs {
		lastSent, err := s.store.LastReminderSent(ctx, userID)
		if err != nil {
			logging.Warn().Err(err).Str("user_id", userID.String()).Msg("streak reminders: failed to read last sent at")
			continue
		}
		if !shouldSendByLastSent(lastSent, s.interval, now) {
			continue
		}

		uid := userID
		sessions, err := s.sessions.FetchSessions(ctx, models.SessionFilter{
			UserID: &uid,
			Since:  &since,
			Order:  models.Ascending,
		})
		if err != nil {
			logging.Warn().Err(err).Str("user_id", userID.String()).Msg("streak reminders: failed to load sessions")
			continue
		}

		streak := analytics.StreakFor(sessions, now, s.cal)
		if !streak.AtRisk {
			continue
		}

		msg := models.WSMessage{
			Type:    streakAtRiskMessageType,
			Payload: models.StreakReminder{PreviousStreak: streak.Previous},
		}
		if err := s.store.PublishToUser(ctx, userID, msg); err != nil {
			logging.Warn().Err(err).Str("user_id", userID.String()).Msg("streak reminders: failed to publish")
			continue
		}
		metrics.RemindersSent.Inc()
		sent++

		if err := s.store.MarkReminderSent(ctx, userID, now); err != nil {
			logging.Warn().Err(err).Str("user_id", userID.String()).Msg("streak reminders: failed to persist last sent at")
		}
	}

	return sent
}

func shouldSendByLastSent(lastSentRaw string, minInterval time.Duration, now time.Time) bool {
	if lastSentRaw == "" {
		return true
	}

	lastSentAt, err := time.Parse(time.RFC3339, lastSentRaw)
	if err != nil {
		return true
	}

	return now.Sub(lastSentAt) >= minInterval
}
