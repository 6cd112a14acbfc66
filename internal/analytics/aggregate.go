package analytics

import (
	"fmt"
	"math"
	"time"

	"studyhub-backend/internal/models"
)

const (
	// DefaultLookbackDays is how far back session records are fetched for stats.
	DefaultLookbackDays = 30

	daysPerWeekView   = 7
	weeksPerMonthView = 4
	weekSpan          = 7 * 24 * time.Hour

	// lastWeekBucket is the monthly bucket holding the week before the current one.
	lastWeekBucket = 2
)

// Aggregate computes hour buckets, totals and streak figures for one user's
// sessions. sessions should already be restricted to the lookback window;
// every session passed in counts toward TotalHours. GroupRank is left nil.
func Aggregate(sessions []models.StudySession, now time.Time, cal Calendar) models.StudyStats {
	today := cal.DayOf(now)

	weekly := make([]models.DayBucket, daysPerWeekView)
	for i := range weekly {
		day := today.AddDays(i - (daysPerWeekView - 1))
		weekly[i].Name = day.Weekday().String()[:3]
	}

	monthly := make([]models.WeekBucket, weeksPerMonthView)
	for i := range monthly {
		monthly[i].Name = fmt.Sprintf("Week %d", i+1)
	}

	var total float64
	studied := make(DaySet, len(sessions))

	for _, s := range sessions {
		hours := minutesToHours(s.Minutes)
		total += hours

		day := cal.DayOf(s.CreatedAt)
		studied[day] = struct{}{}

		if idx, ok := dayBucketIndex(today, day); ok {
			weekly[idx].Hours += hours
		}
		if idx := weekBucketIndex(now, s.CreatedAt); idx >= 0 && idx < weeksPerMonthView {
			monthly[idx].Hours += hours
		}
	}

	var currentWeek float64
	for i := range weekly {
		weekly[i].Hours = roundTenth(weekly[i].Hours)
		currentWeek += weekly[i].Hours
	}
	for i := range monthly {
		monthly[i].Hours = roundTenth(monthly[i].Hours)
	}

	// The trailing seven days and the "1 week ago" bucket are not aligned
	// windows; the difference is an approximation shown as-is.
	weeklyChange := roundTenth(currentWeek - monthly[lastWeekBucket].Hours)

	streak := ComputeStreak(studied, today)

	return models.StudyStats{
		Weekly:         weekly,
		Monthly:        monthly,
		TotalHours:     roundTenth(total),
		WeeklyChange:   weeklyChange,
		Streak:         streak.Current,
		PreviousStreak: streak.Previous,
		StreakIsAtRisk: streak.AtRisk,
	}
}

// dayBucketIndex maps a session day to 0 (six days ago) .. 6 (today) by
// weekday alone, so a session seven or more days old lands in the bucket of
// its weekday. Days after today are not bucketed.
func dayBucketIndex(today, day Day) (int, bool) {
	if today.DaysSince(day) < 0 {
		return 0, false
	}
	offset := (int(today.Weekday()) - int(day.Weekday()) + daysPerWeekView) % daysPerWeekView
	return (daysPerWeekView - 1) - offset, true
}

// weekBucketIndex maps elapsed whole weeks to 3 (this week) .. 0 (three weeks ago).
func weekBucketIndex(now, createdAt time.Time) int {
	weeksAgo := math.Floor(float64(now.Sub(createdAt)) / float64(weekSpan))
	return (weeksPerMonthView - 1) - int(weeksAgo)
}
