package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub-backend/internal/models"
)

// Wednesday afternoon.
var testNow = time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)

func session(minutes int, createdAt time.Time) models.StudySession {
	return models.StudySession{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Subject:   "Math",
		Minutes:   minutes,
		CreatedAt: createdAt,
	}
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestAggregate_EmptyInput(t *testing.T) {
	stats := Aggregate(nil, testNow, NewCalendar(time.UTC))

	require.Len(t, stats.Weekly, 7)
	require.Len(t, stats.Monthly, 4)

	names := make([]string, 0, 7)
	for _, d := range stats.Weekly {
		names = append(names, d.Name)
		assert.Zero(t, d.Hours)
	}
	assert.Equal(t, []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}, names)

	for i, w := range stats.Monthly {
		assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4"}[i], w.Name)
		assert.Zero(t, w.Hours)
	}

	assert.Zero(t, stats.TotalHours)
	assert.Zero(t, stats.WeeklyChange)
	assert.Zero(t, stats.Streak)
	assert.Zero(t, stats.PreviousStreak)
	assert.False(t, stats.StreakIsAtRisk)
	assert.Nil(t, stats.GroupRank)
}

func TestAggregate_TodayAndYesterday(t *testing.T) {
	sessions := []models.StudySession{
		session(60, testNow.Add(-time.Hour)),
		session(30, daysAgo(1)),
	}

	stats := Aggregate(sessions, testNow, NewCalendar(time.UTC))

	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 0, stats.PreviousStreak)
	assert.False(t, stats.StreakIsAtRisk)
	assert.Equal(t, 1.5, stats.TotalHours)
	assert.Equal(t, 1.0, stats.Weekly[6].Hours)
	assert.Equal(t, 0.5, stats.Weekly[5].Hours)
	assert.Equal(t, 1.5, stats.Monthly[3].Hours)
	assert.Equal(t, 1.5, stats.WeeklyChange)
}

func TestAggregate_TodayOnly(t *testing.T) {
	stats := Aggregate([]models.StudySession{session(45, testNow)}, testNow, NewCalendar(time.UTC))

	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 0, stats.PreviousStreak)
	assert.False(t, stats.StreakIsAtRisk)
}

func TestAggregate_StreakAtRisk(t *testing.T) {
	sessions := []models.StudySession{
		session(30, daysAgo(1)),
		session(30, daysAgo(2)),
		session(30, daysAgo(4)),
	}

	stats := Aggregate(sessions, testNow, NewCalendar(time.UTC))

	assert.Equal(t, 0, stats.Streak)
	assert.Equal(t, 2, stats.PreviousStreak)
	assert.True(t, stats.StreakIsAtRisk)
}

func TestAggregate_OlderSessionsWrapOntoTheirWeekday(t *testing.T) {
	sessions := []models.StudySession{
		session(60, daysAgo(7)),
		session(120, daysAgo(8)),
	}

	stats := Aggregate(sessions, testNow, NewCalendar(time.UTC))

	// A week ago was also a Wednesday, the day before it a Tuesday.
	assert.Equal(t, 1.0, stats.Weekly[6].Hours)
	assert.Equal(t, 2.0, stats.Weekly[5].Hours)
	for _, d := range stats.Weekly[:5] {
		assert.Zero(t, d.Hours, d.Name)
	}
	assert.Equal(t, 3.0, stats.Monthly[2].Hours)
	assert.Equal(t, 3.0, stats.TotalHours)
	assert.Equal(t, 0.0, stats.WeeklyChange)
	assert.Zero(t, stats.Streak)
	assert.Zero(t, stats.PreviousStreak)
	assert.False(t, stats.StreakIsAtRisk)
}

func TestAggregate_TenDaysAgoCountsOnItsWeekday(t *testing.T) {
	stats := Aggregate([]models.StudySession{session(120, daysAgo(10))}, testNow, NewCalendar(time.UTC))

	// Ten days before a Wednesday is a Sunday.
	assert.Equal(t, "Sun", stats.Weekly[3].Name)
	assert.Equal(t, 2.0, stats.Weekly[3].Hours)
	assert.Equal(t, 2.0, stats.Monthly[2].Hours)
	assert.Equal(t, 2.0, stats.TotalHours)
	assert.Equal(t, 0.0, stats.WeeklyChange)
}

func TestAggregate_SessionsBeyondFourWeeks(t *testing.T) {
	stats := Aggregate([]models.StudySession{session(60, daysAgo(29))}, testNow, NewCalendar(time.UTC))

	for _, w := range stats.Monthly {
		assert.Zero(t, w.Hours, w.Name)
	}
	assert.Equal(t, 1.0, stats.TotalHours)
}

func TestAggregate_FutureSessionExcludedFromBuckets(t *testing.T) {
	stats := Aggregate([]models.StudySession{session(60, testNow.AddDate(0, 0, 2))}, testNow, NewCalendar(time.UTC))

	for _, d := range stats.Weekly {
		assert.Zero(t, d.Hours)
	}
	for _, w := range stats.Monthly {
		assert.Zero(t, w.Hours)
	}
	assert.Equal(t, 1.0, stats.TotalHours)
}

func TestAggregate_RoundsBucketsHalfUp(t *testing.T) {
	sessions := []models.StudySession{
		session(30, testNow),
		session(30, testNow.Add(-time.Minute)),
		session(30, testNow.Add(-2*time.Minute)),
		session(15, daysAgo(1)),
		session(20, daysAgo(2)),
	}

	stats := Aggregate(sessions, testNow, NewCalendar(time.UTC))

	assert.Equal(t, 1.5, stats.Weekly[6].Hours)
	// 15 minutes is 0.25h, which rounds up.
	assert.Equal(t, 0.3, stats.Weekly[5].Hours)
	assert.Equal(t, 0.3, stats.Weekly[4].Hours)
	assert.Equal(t, 2.1, stats.TotalHours)
}

func TestAggregate_TotalIndependentOfOrder(t *testing.T) {
	var sessions []models.StudySession
	for i := 0; i < 40; i++ {
		sessions = append(sessions, session(7+i*3, daysAgo(i%30)))
	}

	want := Aggregate(sessions, testNow, NewCalendar(time.UTC))

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		shuffled := append([]models.StudySession(nil), sessions...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Aggregate(shuffled, testNow, NewCalendar(time.UTC))
		assert.Equal(t, want.TotalHours, got.TotalHours)
		assert.Equal(t, want.Weekly, got.Weekly)
		assert.Equal(t, want.Streak, got.Streak)
	}
}

func TestAggregate_WeeklySumFoldsEveryPastDayByWeekday(t *testing.T) {
	var sessions []models.StudySession
	expectedMinutes := 0
	perWeekday := make(map[time.Weekday]int)
	for i := 0; i < 20; i++ {
		s := session(10*(i+1), daysAgo(i))
		sessions = append(sessions, s)
		expectedMinutes += s.Minutes
		perWeekday[s.CreatedAt.Weekday()] += s.Minutes
	}

	cal := NewCalendar(time.UTC)
	today := cal.DayOf(testNow)

	var raw float64
	for _, s := range sessions {
		day := cal.DayOf(s.CreatedAt)
		idx, ok := dayBucketIndex(today, day)
		require.True(t, ok)
		assert.Equal(t, day.Weekday(), today.AddDays(idx-6).Weekday())
		raw += minutesToHours(s.Minutes)
	}
	assert.InDelta(t, minutesToHours(expectedMinutes), raw, 1e-9)

	stats := Aggregate(sessions, testNow, cal)
	for i, d := range stats.Weekly {
		wd := today.AddDays(i - 6).Weekday()
		assert.Equal(t, roundTenth(minutesToHours(perWeekday[wd])), d.Hours, d.Name)
	}
}

func TestAggregate_UsesCalendarLocation(t *testing.T) {
	// 02:00 UTC on the 14th is still the 13th four hours west of UTC.
	createdAt := time.Date(2026, 10, 14, 2, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	sessions := []models.StudySession{session(60, createdAt)}

	utc := Aggregate(sessions, now, NewCalendar(time.UTC))
	assert.Equal(t, 1, utc.Streak)
	assert.Equal(t, 1.0, utc.Weekly[6].Hours)

	west := Aggregate(sessions, now, NewCalendar(time.FixedZone("UTC-4", -4*60*60)))
	assert.Equal(t, 0, west.Streak)
	assert.Equal(t, 1, west.PreviousStreak)
	assert.True(t, west.StreakIsAtRisk)
	assert.Equal(t, 1.0, west.Weekly[5].Hours)
}
