package analytics

import (
	"time"

	"studyhub-backend/internal/models"
)

// streakWalkCap bounds how many days a streak walk looks back.
const streakWalkCap = 30

// StreakState describes consecutive study days. Previous is only computed
// when Current is 0; AtRisk is true only when Current is 0 and Previous > 0.
type StreakState struct {
	Current  int  `json:"current"`
	Previous int  `json:"previous"`
	AtRisk   bool `json:"at_risk"`
}

// StudyDays collects the calendar days on which sessions were logged.
func StudyDays(sessions []models.StudySession, cal Calendar) DaySet {
	days := make(DaySet, len(sessions))
	for _, s := range sessions {
		days[cal.DayOf(s.CreatedAt)] = struct{}{}
	}
	return days
}

// ComputeStreak walks back from today counting consecutive studied days.
// When today has no session the walk restarts from yesterday to find the
// run that is about to break.
func ComputeStreak(days DaySet, today Day) StreakState {
	hasToday := days.Has(today)

	state := StreakState{Current: countRun(days, today)}
	if !hasToday && state.Current == 0 {
		state.Previous = countRun(days, today.AddDays(-1))
	}
	state.AtRisk = !hasToday && state.Previous > 0

	return state
}

// StreakFor is a convenience wrapper for callers holding raw sessions.
func StreakFor(sessions []models.StudySession, now time.Time, cal Calendar) StreakState {
	return ComputeStreak(StudyDays(sessions, cal), cal.DayOf(now))
}

func countRun(days DaySet, start Day) int {
	run := 0
	for i := 0; i < streakWalkCap; i++ {
		if !days.Has(start.AddDays(-i)) {
			break
		}
		run++
	}
	return run
}
