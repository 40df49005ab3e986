package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	practicesession "github.com/examprep/quizcore/internal/domain/practice_session"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/id"
)

// State is the typed view over a KV. Every value is JSON. A value that
// fails to parse reads as the empty value of its type and is logged;
// only backend failures are returned as errors.
type State struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

func NewState(kv KV, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{kv: kv, logger: logger, now: time.Now}
}

// WithClock replaces time.Now for the today counter.
func (s *State) WithClock(now func() time.Time) *State {
	s.now = now
	return s
}

// read decodes the value under key. An absent or unparsable value yields
// the zero T and ok=false.
func read[T any](ctx context.Context, s *State, key string) (v T, ok bool, err error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read %s: %w", key, err)
	}

	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Warn("discarding unparsable stored value", "key", key, "error", err)
		return v, false, nil
	}
	return decoded, true, nil
}

func (s *State) writeJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// ============================================================================
// Progress
// ============================================================================

func (s *State) Progress(ctx context.Context) (progress.Map, error) {
	m, _, err := read[progress.Map](ctx, s, KeyProgress)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = progress.Map{}
	}
	return m, nil
}

// RecordProgress overwrites the entry for one question.
func (s *State) RecordProgress(ctx context.Context, questionID int, entry progress.Entry) (progress.Map, error) {
	m, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	m[questionID] = entry
	if err := s.writeJSON(ctx, KeyProgress, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ============================================================================
// Id sets
// ============================================================================

func (s *State) readIDs(ctx context.Context, key string) ([]int, error) {
	ids, _, err := read[[]int](ctx, s, key)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(list []int, v int) ([]int, bool) {
	out := make([]int, 0, len(list))
	found := false
	for _, x := range list {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	return out, found
}

func (s *State) WrongIDs(ctx context.Context) ([]int, error) {
	return s.readIDs(ctx, KeyWrong)
}

// AddWrong appends ids not already in the wrong set, keeping insertion
// order. It writes nothing when every id is present.
func (s *State) AddWrong(ctx context.Context, ids ...int) error {
	wrong, err := s.WrongIDs(ctx)
	if err != nil {
		return err
	}

	changed := false
	for _, qid := range ids {
		if !containsInt(wrong, qid) {
			wrong = append(wrong, qid)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeJSON(ctx, KeyWrong, wrong)
}

// RemoveWrong returns ErrNotFound when questionID is not in the set.
func (s *State) RemoveWrong(ctx context.Context, questionID int) error {
	wrong, err := s.WrongIDs(ctx)
	if err != nil {
		return err
	}
	wrong, found := removeInt(wrong, questionID)
	if !found {
		return ErrNotFound
	}
	return s.writeJSON(ctx, KeyWrong, wrong)
}

func (s *State) FavoriteIDs(ctx context.Context) ([]int, error) {
	return s.readIDs(ctx, KeyFavorite)
}

// ToggleFavorite flips membership and reports the new state.
func (s *State) ToggleFavorite(ctx context.Context, questionID int) (bool, error) {
	favorites, err := s.FavoriteIDs(ctx)
	if err != nil {
		return false, err
	}

	favorites, removed := removeInt(favorites, questionID)
	if !removed {
		favorites = append(favorites, questionID)
	}
	if err := s.writeJSON(ctx, KeyFavorite, favorites); err != nil {
		return false, err
	}
	return !removed, nil
}

func (s *State) FavoriteTerms(ctx context.Context) ([]string, error) {
	terms, _, err := read[[]string](ctx, s, KeyFavoriteTerms)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// ToggleFavoriteTerm flips membership and reports the new state.
func (s *State) ToggleFavoriteTerm(ctx context.Context, term string) (bool, error) {
	terms, err := s.FavoriteTerms(ctx)
	if err != nil {
		return false, err
	}

	next := make([]string, 0, len(terms)+1)
	removed := false
	for _, t := range terms {
		if t == term {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, term)
	}
	if err := s.writeJSON(ctx, KeyFavoriteTerms, next); err != nil {
		return false, err
	}
	return !removed, nil
}

// ============================================================================
// Resumable markers
// ============================================================================

type markerDocument struct {
	Order *practicesession.Marker           `json:"order,omitempty"`
	Topic map[string]practicesession.Marker `json:"topic,omitempty"`
}

func (s *State) markers(ctx context.Context) (markerDocument, error) {
	doc, _, err := read[markerDocument](ctx, s, KeyPracticeState)
	return doc, err
}

// SaveMarker overwrites the marker stored under key.
func (s *State) SaveMarker(ctx context.Context, key practicesession.MarkerKey, m practicesession.Marker) error {
	doc, err := s.markers(ctx)
	if err != nil {
		return err
	}

	switch key.Mode {
	case practicesession.ModeSequential:
		doc.Order = &m
	case practicesession.ModeTopic:
		if doc.Topic == nil {
			doc.Topic = make(map[string]practicesession.Marker)
		}
		doc.Topic[key.Topic] = m
	default:
		return fmt.Errorf("mode %q has no marker", key.Mode)
	}
	return s.writeJSON(ctx, KeyPracticeState, doc)
}

// LoadMarker returns nil when nothing is stored under key. Whether the
// marker is still usable is up to the caller.
func (s *State) LoadMarker(ctx context.Context, key practicesession.MarkerKey) (*practicesession.Marker, error) {
	doc, err := s.markers(ctx)
	if err != nil {
		return nil, err
	}

	switch key.Mode {
	case practicesession.ModeSequential:
		return doc.Order, nil
	case practicesession.ModeTopic:
		if m, ok := doc.Topic[key.Topic]; ok {
			return &m, nil
		}
	}
	return nil, nil
}

func (s *State) ClearMarker(ctx context.Context, key practicesession.MarkerKey) error {
	doc, err := s.markers(ctx)
	if err != nil {
		return err
	}

	switch key.Mode {
	case practicesession.ModeSequential:
		doc.Order = nil
	case practicesession.ModeTopic:
		delete(doc.Topic, key.Topic)
	}
	return s.writeJSON(ctx, KeyPracticeState, doc)
}

// ============================================================================
// Mock history
// ============================================================================

// MockHistory is newest first.
func (s *State) MockHistory(ctx context.Context) ([]progress.MockHistoryEntry, error) {
	history, _, err := read[[]progress.MockHistoryEntry](ctx, s, KeyMockHistory)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []progress.MockHistoryEntry{}
	}
	return history, nil
}

// AddMockHistory prepends entry, assigning an id when it has none.
func (s *State) AddMockHistory(ctx context.Context, entry progress.MockHistoryEntry) (progress.MockHistoryEntry, error) {
	history, err := s.MockHistory(ctx)
	if err != nil {
		return entry, err
	}
	if entry.ID == "" {
		entry.ID = id.New()
	}

	history = append([]progress.MockHistoryEntry{entry}, history...)
	if err := s.writeJSON(ctx, KeyMockHistory, history); err != nil {
		return entry, err
	}
	return entry, nil
}

// RemoveMockHistory returns ErrNotFound for an unknown id.
func (s *State) RemoveMockHistory(ctx context.Context, entryID string) error {
	history, err := s.MockHistory(ctx)
	if err != nil {
		return err
	}

	next := make([]progress.MockHistoryEntry, 0, len(history))
	for _, h := range history {
		if h.ID != entryID {
			next = append(next, h)
		}
	}
	if len(next) == len(history) {
		return ErrNotFound
	}
	return s.writeJSON(ctx, KeyMockHistory, next)
}

func (s *State) ClearMockHistory(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyMockHistory)
}

// ============================================================================
// Counters and logs
// ============================================================================

type todayCounter struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TodayCount is 0 when the stored counter belongs to another day.
func (s *State) TodayCount(ctx context.Context) (int, error) {
	c, _, err := read[todayCounter](ctx, s, KeyToday)
	if err != nil {
		return 0, err
	}
	if c.Date != progress.DateKey(s.now()) {
		return 0, nil
	}
	return c.Count, nil
}

// IncrementToday adds one, starting over on a new day.
func (s *State) IncrementToday(ctx context.Context) (int, error) {
	count, err := s.TodayCount(ctx)
	if err != nil {
		return 0, err
	}
	c := todayCounter{Date: progress.DateKey(s.now()), Count: count + 1}
	if err := s.writeJSON(ctx, KeyToday, c); err != nil {
		return 0, err
	}
	return c.Count, nil
}

// MilestonesShown returns the thresholds already announced.
func (s *State) MilestonesShown(ctx context.Context) (map[int]bool, error) {
	shown, err := s.readIDs(ctx, KeyMilestones)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(shown))
	for _, t := range shown {
		set[t] = true
	}
	return set, nil
}

func (s *State) MarkMilestone(ctx context.Context, threshold int) error {
	shown, err := s.readIDs(ctx, KeyMilestones)
	if err != nil {
		return err
	}
	if containsInt(shown, threshold) {
		return nil
	}
	return s.writeJSON(ctx, KeyMilestones, append(shown, threshold))
}

// AnswerEvents is the log in append order.
func (s *State) AnswerEvents(ctx context.Context) ([]progress.AnswerEvent, error) {
	events, _, err := read[[]progress.AnswerEvent](ctx, s, KeyAnswerHistory)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []progress.AnswerEvent{}
	}
	return events, nil
}

func (s *State) AppendAnswerEvent(ctx context.Context, e progress.AnswerEvent) error {
	events, err := s.AnswerEvents(ctx)
	if err != nil {
		return err
	}
	return s.writeJSON(ctx, KeyAnswerHistory, append(events, e))
}

// ============================================================================
// Settings
// ============================================================================

// ExamDate is empty when unset.
func (s *State) ExamDate(ctx context.Context) (string, error) {
	date, _, err := read[string](ctx, s, KeyExamDate)
	return date, err
}

// SetExamDate removes the target for an empty date.
func (s *State) SetExamDate(ctx context.Context, date string) error {
	if date == "" {
		return s.kv.Delete(ctx, KeyExamDate)
	}
	if _, err := time.Parse(progress.DateLayout, date); err != nil {
		return fmt.Errorf("%w: exam date %q: %v", ErrInvalid, date, err)
	}
	return s.writeJSON(ctx, KeyExamDate, date)
}

// Settings reads the preference keys. The mascot is on and sound off
// until set.
func (s *State) Settings(ctx context.Context) (progress.Settings, error) {
	nickname, _, err := read[string](ctx, s, KeyNickname)
	if err != nil {
		return progress.Settings{}, err
	}
	theme, _, err := read[string](ctx, s, KeyTheme)
	if err != nil {
		return progress.Settings{}, err
	}
	sound, _, err := read[bool](ctx, s, KeySound)
	if err != nil {
		return progress.Settings{}, err
	}
	mascot, ok, err := read[bool](ctx, s, KeyMascot)
	if err != nil {
		return progress.Settings{}, err
	}
	if !ok {
		mascot = true
	}
	examDate, err := s.ExamDate(ctx)
	if err != nil {
		return progress.Settings{}, err
	}

	return progress.Settings{
		Nickname: nickname,
		Theme:    progress.ParseTheme(theme),
		Sound:    sound,
		Mascot:   mascot,
		ExamDate: examDate,
	}, nil
}

// SetSettings validates everything before writing any key.
func (s *State) SetSettings(ctx context.Context, settings progress.Settings) (progress.Settings, error) {
	if settings.ExamDate != "" {
		if _, err := time.Parse(progress.DateLayout, settings.ExamDate); err != nil {
			return progress.Settings{}, fmt.Errorf("%w: exam date %q: %v", ErrInvalid, settings.ExamDate, err)
		}
	}
	settings.Nickname = progress.CleanNickname(settings.Nickname)
	settings.Theme = progress.ParseTheme(string(settings.Theme))

	writes := []struct {
		key string
		v   any
	}{
		{KeyNickname, settings.Nickname},
		{KeyTheme, settings.Theme},
		{KeySound, settings.Sound},
		{KeyMascot, settings.Mascot},
	}
	for _, w := range writes {
		if err := s.writeJSON(ctx, w.key, w.v); err != nil {
			return progress.Settings{}, err
		}
	}
	if err := s.SetExamDate(ctx, settings.ExamDate); err != nil {
		return progress.Settings{}, err
	}
	return settings, nil
}

// ClearAll deletes every known key.
func (s *State) ClearAll(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// Export returns the raw JSON of every known key that holds a value.
func (s *State) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(AllKeys))
	for _, key := range AllKeys {
		raw, err := s.kv.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !json.Valid([]byte(raw)) {
			s.logger.Warn("skipping unparsable stored value in export", "key", key)
			continue
		}
		out[key] = json.RawMessage(raw)
	}
	return out, nil
}

// Import writes the given values after checking that every key is known
// and every value is valid JSON. Keys not present are left alone.
func (s *State) Import(ctx context.Context, values map[string]json.RawMessage) (int, error) {
	known := make(map[string]bool, len(AllKeys))
	for _, key := range AllKeys {
		known[key] = true
	}
	for key, raw := range values {
		if !known[key] {
			return 0, fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
		}
		if !json.Valid(raw) {
			return 0, fmt.Errorf("%w: value for %q is not valid JSON", ErrInvalid, key)
		}
	}

	for key, raw := range values {
		if err := s.kv.Set(ctx, key, string(raw)); err != nil {
			return 0, fmt.Errorf("write %s: %w", key, err)
		}
	}
	return len(values), nil
}
