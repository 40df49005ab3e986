// Package analytics derives read-only statistics from the answer-event log
// and the progress map. Nothing here mutates its inputs.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/examprep/quizcore/internal/domain/progress"
)

// DailyStat is the correctness of one calendar date.
type DailyStat struct {
	Date    string `json:"date"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Percent int    `json:"pct"`
}

// WindowStat is the correctness of one consecutive slice of the log.
type WindowStat struct {
	Label   string `json:"label"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Percent int    `json:"pct"`
}

func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// DailyCount counts events recorded on date (progress.DateLayout).
func DailyCount(events []progress.AnswerEvent, date string) int {
	n := 0
	for _, e := range events {
		if e.Date == date {
			n++
		}
	}
	return n
}

// Daily groups the log by calendar date, oldest date first.
func Daily(events []progress.AnswerEvent) []DailyStat {
	byDate := make(map[string]*DailyStat)
	for _, e := range events {
		s, ok := byDate[e.Date]
		if !ok {
			s = &DailyStat{Date: e.Date}
			byDate[e.Date] = s
		}
		s.Total++
		if e.Correct {
			s.Correct++
		}
	}

	out := make([]DailyStat, 0, len(byDate))
	for _, s := range byDate {
		s.Percent = percent(s.Correct, s.Total)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Windowed splits the log, in append order, into windows of size events.
// The last window keeps whatever is left. Labels are 1-based positions,
// e.g. "21-40".
func Windowed(events []progress.AnswerEvent, size int) []WindowStat {
	if size <= 0 {
		return []WindowStat{}
	}

	out := make([]WindowStat, 0, (len(events)+size-1)/size)
	for start := 0; start < len(events); start += size {
		end := start + size
		if end > len(events) {
			end = len(events)
		}

		w := WindowStat{
			Label: fmt.Sprintf("%d-%d", start+1, end),
			Total: end - start,
		}
		for _, e := range events[start:end] {
			if e.Correct {
				w.Correct++
			}
		}
		w.Percent = percent(w.Correct, w.Total)
		out = append(out, w)
	}
	return out
}
