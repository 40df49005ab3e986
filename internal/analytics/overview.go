package analytics

import (
	"math"
	"time"

	"github.com/examprep/quizcore/internal/domain/progress"
)

// Overview is the dashboard summary.
type Overview struct {
	Done          int  `json:"done"`
	Correct       int  `json:"correct"`
	CorrectRate   *int `json:"correct_rate,omitempty"`
	WrongCount    int  `json:"wrong_count"`
	FavoriteCount int  `json:"favorite_count"`
	TodayCount    int  `json:"today_count"`
	DaysToExam    *int `json:"days_to_exam,omitempty"`
	PoolSize      int  `json:"pool_size"`
}

// Inputs collects what the overview is computed from.
type Inputs struct {
	Progress      progress.Map
	WrongCount    int
	FavoriteCount int
	TodayCount    int
	ExamDate      string // progress.DateLayout, empty when unset
	PoolSize      int
	Now           time.Time
}

// BuildOverview computes the summary. CorrectRate is absent until one
// question has been answered; DaysToExam is absent for an unset or
// unparsable date.
func BuildOverview(in Inputs) Overview {
	done, correct := in.Progress.Counts()
	o := Overview{
		Done:          done,
		Correct:       correct,
		WrongCount:    in.WrongCount,
		FavoriteCount: in.FavoriteCount,
		TodayCount:    in.TodayCount,
		PoolSize:      in.PoolSize,
	}

	if done > 0 {
		rate := percent(correct, done)
		o.CorrectRate = &rate
	}

	if days, ok := DaysUntil(in.ExamDate, in.Now); ok {
		o.DaysToExam = &days
	}
	return o
}

// DaysUntil is the number of days, rounded up, from now until local
// midnight of date. Past dates give zero or negative values.
func DaysUntil(date string, now time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}
	target, err := time.ParseInLocation(progress.DateLayout, date, now.Location())
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(target.Sub(now).Hours() / 24)), true
}
