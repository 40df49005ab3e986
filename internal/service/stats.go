package service

import (
	"context"
	"time"

	"github.com/examprep/quizcore/internal/analytics"
	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/store"
)

// DefaultWindowSize is used when a client gives no window size.
const DefaultWindowSize = 20

type StatsService struct {
	content *content.Content
	state   *store.State
	now     func() time.Time
}

func NewStatsService(c *content.Content, st *store.State) *StatsService {
	return &StatsService{content: c, state: st, now: time.Now}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

func (s *StatsService) Overview(ctx context.Context) (analytics.Overview, error) {
	p, err := s.state.Progress(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	wrong, err := s.state.WrongIDs(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	favorites, err := s.state.FavoriteIDs(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	today, err := s.state.TodayCount(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	examDate, err := s.state.ExamDate(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}

	return analytics.BuildOverview(analytics.Inputs{
		Progress:      p,
		WrongCount:    len(wrong),
		FavoriteCount: len(favorites),
		TodayCount:    today,
		ExamDate:      examDate,
		PoolSize:      s.content.Size(),
		Now:           s.now(),
	}), nil
}

func (s *StatsService) Daily(ctx context.Context) ([]analytics.DailyStat, error) {
	events, err := s.state.AnswerEvents(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Daily(events), nil
}

// Windows falls back to DefaultWindowSize for a non-positive size.
func (s *StatsService) Windows(ctx context.Context, size int) ([]analytics.WindowStat, error) {
	if size <= 0 {
		size = DefaultWindowSize
	}
	events, err := s.state.AnswerEvents(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Windowed(events, size), nil
}
