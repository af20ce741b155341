package models

// StreakState is the per-student streak row. LastStreakDate is a civil
// date ("2006-01-02") in the platform's reference timezone, nil until
// the first credited day.
type StreakState struct {
	StudentID      int64   `json:"student_id"`
	StreakDays     int     `json:"streak_days"`
	LastStreakDate *string `json:"last_streak_date"`
}

// Credit applies the daily streak transition in place and reports
// whether the state changed:
//
//	last == today      -> no-op
//	last == yesterday  -> streak continues, +1
//	anything else      -> streak restarts at 1
//
// Callers must hold whatever lock makes the surrounding
// read-modify-write atomic; Credit itself is pure state transition.
func (s *StreakState) Credit(today, yesterday string) bool {
	if s.LastStreakDate != nil && *s.LastStreakDate == today {
		return false
	}
	if s.LastStreakDate != nil && *s.LastStreakDate == yesterday {
		s.StreakDays++
	} else {
		s.StreakDays = 1
	}
	d := today
	s.LastStreakDate = &d
	return true
}

// StreakStatus is the read-side view returned by the streak endpoints.
type StreakStatus struct {
	StudentID                 int64   `json:"student_id"`
	StreakDays                int     `json:"streak_days"`
	LastStreakDate            *string `json:"last_streak_date"`
	Today                     string  `json:"today"`
	SecondsUntilNextIncrement int     `json:"seconds_until_next_increment"`
}

type IncrementResult struct {
	StudentID      int64   `json:"student_id"`
	StreakDays     int     `json:"streak_days"`
	LastStreakDate *string `json:"last_streak_date"`
	Incremented    bool    `json:"incremented"`
}
