package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/domain/mockexam"
	practicesession "github.com/examprep/quizcore/internal/domain/practice_session"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/domain/question"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/service"
	"github.com/examprep/quizcore/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createContent returns n single-answer questions with best answer A,
// plus question 100 which needs two options (A and C).
func createContent(n int) *content.Content {
	qs := make([]question.Question, 0, n+1)
	for i := 1; i <= n; i++ {
		qs = append(qs, question.Question{
			ID:         i,
			PromptCN:   "Question",
			OptionsCN:  map[string]string{"A": "a", "B": "b", "C": "c"},
			BestAnswer: question.Answer{"A"},
			Tags:       []string{"S3 Lifecycle"},
		})
	}
	qs = append(qs, question.Question{
		ID:         100,
		PromptCN:   "（选二）",
		OptionsCN:  map[string]string{"A": "a", "B": "b", "C": "c"},
		BestAnswer: question.Answer{"A", "C"},
		Tags:       []string{"IAM"},
	})
	glossary := question.Glossary{"Amazon S3": {Definition: "object storage"}}
	return content.New(qs, glossary, testLogger())
}

func newState() *store.State {
	return store.NewState(store.NewMemory(), testLogger())
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// ============================================================================
// Practice
// ============================================================================

func TestPractice_StartAndResume(t *testing.T) {
	ctx := context.Background()
	c := createContent(9)
	state := newState()
	svc := service.NewPracticeService(c, state, nil, testLogger())

	first, err := svc.Start(ctx, practicesession.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Resumed || first.Position != 1 {
		t.Errorf("expected fresh start at 1, got resumed=%v position=%d", first.Resumed, first.Position)
	}
	if len(first.Session.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(first.Session.Questions))
	}

	for i := 0; i < 4; i++ {
		if _, err := svc.Next(ctx, first.Session.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	second, _ := svc.Start(ctx, practicesession.DefaultConfig())
	if !second.Resumed || second.Position != 5 {
		t.Errorf("expected resume at 5, got resumed=%v position=%d", second.Resumed, second.Position)
	}
}

func TestPractice_StaleMarkerRestarts(t *testing.T) {
	ctx := context.Background()
	state := newState()
	state.SaveMarker(ctx, practicesession.SequentialKey(), practicesession.Marker{Index: 4, Total: 10})

	svc := service.NewPracticeService(createContent(7), state, nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	if res.Resumed || res.Session.Index != 0 {
		t.Errorf("expected restart at 0, got resumed=%v index=%d", res.Resumed, res.Session.Index)
	}
	m, _ := state.LoadMarker(ctx, practicesession.SequentialKey())
	if m == nil || m.Total != 8 || m.Index != 0 {
		t.Errorf("expected marker rewritten to {0 8}, got %v", m)
	}
}

func TestPractice_WrongFilterUsesStoredSet(t *testing.T) {
	ctx := context.Background()
	state := newState()
	state.AddWrong(ctx, 7, 3)

	svc := service.NewPracticeService(createContent(10), state, nil, testLogger())
	config := practicesession.DefaultConfig()
	config.Filter = practicesession.FilterWrong

	res, _ := svc.Start(ctx, config)

	qs := res.Session.Questions
	if len(qs) != 2 || qs[0].ID != 3 || qs[1].ID != 7 {
		t.Errorf("expected [3 7], got %+v", qs)
	}
}

func TestPractice_SampleClamped(t *testing.T) {
	svc := service.NewPracticeService(createContent(300), newState(), nil, testLogger()).
		WithRand(seeded)

	sample := 1000
	config := practicesession.DefaultConfig()
	config.SampleSize = &sample

	res, err := svc.Start(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Session.Questions) != 200 {
		t.Errorf("expected 200 questions, got %d", len(res.Session.Questions))
	}
}

func TestPractice_InvalidConfig(t *testing.T) {
	svc := service.NewPracticeService(createContent(3), newState(), nil, testLogger())

	if _, err := svc.Start(context.Background(), practicesession.SessionConfig{Mode: "random"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPractice_Answer(t *testing.T) {
	ctx := context.Background()
	state := newState()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.Local)
	state.WithClock(func() time.Time { return now })

	svc := service.NewPracticeService(createContent(3), state, nil, testLogger()).
		WithClock(func() time.Time { return now })
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	wrong, err := svc.Answer(ctx, res.Session.ID, 2, question.Answer{"b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrong.Correct || wrong.Chosen != "B" || wrong.BestAnswer[0] != "A" {
		t.Errorf("unexpected result: %+v", wrong)
	}

	right, _ := svc.Answer(ctx, res.Session.ID, 2, question.Answer{"A"})
	if !right.Correct || right.TodayCount != 2 {
		t.Errorf("unexpected result: %+v", right)
	}

	p, _ := state.Progress(ctx)
	if !p[2].Correct || p[2].Answered != "A" {
		t.Errorf("expected progress overwritten, got %+v", p[2])
	}
	ids, _ := state.WrongIDs(ctx)
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected wrong set [2], got %v", ids)
	}
	events, _ := state.AnswerEvents(ctx)
	if len(events) != 2 || events[0].Correct || !events[1].Correct {
		t.Errorf("expected two events in order, got %+v", events)
	}
}

func TestPractice_MultiSelectNeedsFullSelection(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewPracticeService(createContent(1), state, nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	_, err := svc.Answer(ctx, res.Session.ID, 100, question.Answer{"A"})
	if !errors.Is(err, service.ErrIncompleteSelection) {
		t.Fatalf("expected ErrIncompleteSelection, got %v", err)
	}
	if events, _ := state.AnswerEvents(ctx); len(events) != 0 {
		t.Error("expected nothing recorded for an incomplete selection")
	}

	got, err := svc.Answer(ctx, res.Session.ID, 100, question.Answer{"C", "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Correct || got.RequiredCount != 2 || got.Chosen != "A,C" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestPractice_AnswerUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPracticeService(createContent(2), newState(), nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	if _, err := svc.Answer(ctx, res.Session.ID, 55, question.Answer{"A"}); !errors.Is(err, service.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
	if _, err := svc.Answer(ctx, "missing", 1, question.Answer{"A"}); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPractice_MilestoneOnce(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPracticeService(createContent(12), newState(), nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	fired := 0
	answer := func(id int) {
		got, err := svc.Answer(ctx, res.Session.ID, id, question.Answer{"A"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Milestone != nil {
			if got.Milestone.Threshold != 10 {
				t.Errorf("expected threshold 10, got %d", got.Milestone.Threshold)
			}
			fired++
		}
	}

	for id := 1; id <= 10; id++ {
		answer(id)
	}
	// re-answering keeps the distinct count at 10
	answer(10)
	answer(3)
	answer(11)

	if fired != 1 {
		t.Errorf("expected one milestone, got %d", fired)
	}
}

func TestPractice_NavigationCompletion(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPracticeService(createContent(1), newState(), nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())
	svc.Answer(ctx, res.Session.ID, 1, question.Answer{"A"})

	nav, _ := svc.Next(ctx, res.Session.ID)
	if nav.Completion != nil {
		t.Error("expected no completion before the last question")
	}

	nav, _ = svc.Next(ctx, res.Session.ID)
	if nav.Completion == nil {
		t.Fatal("expected completion when wrapping")
	}
	if nav.Completion.Total != 2 || nav.Completion.Answered != 1 || nav.Completion.Correct != 1 {
		t.Errorf("unexpected report: %+v", nav.Completion)
	}
	if nav.Session.Index != 0 {
		t.Errorf("expected wrap to 0, got %d", nav.Session.Index)
	}

	nav, _ = svc.Prev(ctx, res.Session.ID)
	if nav.Session.Index != 1 {
		t.Errorf("expected prev wrap to 1, got %d", nav.Session.Index)
	}
}

func TestPractice_GotoSavesMarker(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewPracticeService(createContent(4), state, nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	nav, err := svc.Goto(ctx, res.Session.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nav.Session.Index != 3 || nav.Completion != nil {
		t.Errorf("expected index 3 without completion, got %+v", nav)
	}
	m, _ := state.LoadMarker(ctx, practicesession.SequentialKey())
	if m == nil || m.Index != 3 || m.Total != 5 {
		t.Errorf("expected marker {3 5}, got %v", m)
	}

	if _, err := svc.Goto(ctx, res.Session.ID, 5); !errors.Is(err, service.ErrPositionOutOfRange) {
		t.Errorf("expected ErrPositionOutOfRange, got %v", err)
	}
	m, _ = state.LoadMarker(ctx, practicesession.SequentialKey())
	if m == nil || m.Index != 3 {
		t.Errorf("expected refused jump to keep marker at 3, got %v", m)
	}
	if _, err := svc.Goto(ctx, "missing", 0); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPractice_RestartClearsMarker(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewPracticeService(createContent(4), state, nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())
	svc.Goto(ctx, res.Session.ID, 2)

	session, err := svc.Restart(ctx, res.Session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Index != 0 {
		t.Errorf("expected index 0, got %d", session.Index)
	}
	if m, _ := state.LoadMarker(ctx, practicesession.SequentialKey()); m != nil {
		t.Errorf("expected marker cleared, got %v", m)
	}

	again, _ := svc.Start(ctx, practicesession.DefaultConfig())
	if again.Resumed || again.Position != 1 {
		t.Errorf("expected fresh start after restart, got resumed=%v position=%d", again.Resumed, again.Position)
	}
	if _, err := svc.Restart(ctx, "missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPractice_AnswerUnknownOptionWritesNothing(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewPracticeService(createContent(2), state, nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	if _, err := svc.Answer(ctx, res.Session.ID, 2, question.Answer{"Z"}); !errors.Is(err, grader.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}

	p, _ := state.Progress(ctx)
	wrong, _ := state.WrongIDs(ctx)
	events, _ := state.AnswerEvents(ctx)
	today, _ := state.TodayCount(ctx)
	if len(p) != 0 || len(wrong) != 0 || len(events) != 0 || today != 0 {
		t.Errorf("expected nothing written, got progress=%v wrong=%v events=%d today=%d", p, wrong, len(events), today)
	}
}

func TestPractice_MalformedBestAnswerGradesIncorrect(t *testing.T) {
	ctx := context.Background()
	c := content.New([]question.Question{{
		ID:         1,
		PromptCN:   "Question",
		OptionsCN:  map[string]string{"A": "a", "B": "b"},
		BestAnswer: question.Answer{"E"},
	}}, nil, testLogger())
	svc := service.NewPracticeService(c, newState(), nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())

	got, err := svc.Answer(ctx, res.Session.ID, 1, question.Answer{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Correct {
		t.Error("expected a question whose best answer is not an option to grade incorrect")
	}
}

func TestPractice_SheetAndTopics(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPracticeService(createContent(2), newState(), nil, testLogger())
	res, _ := svc.Start(ctx, practicesession.DefaultConfig())
	svc.Answer(ctx, res.Session.ID, 2, question.Answer{"B"})

	sheet, err := svc.Sheet(ctx, res.Session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet[0].Status != practicesession.SheetUnanswered || sheet[1].Status != practicesession.SheetWrong {
		t.Errorf("unexpected sheet: %+v", sheet)
	}

	topics, _ := svc.Topics(ctx)
	if len(topics) != 2 || topics[0].Root != "S3" || topics[0].Done != 1 {
		t.Errorf("unexpected topics: %+v", topics)
	}
}

// ============================================================================
// Mock exam
// ============================================================================

func mockConfig(n int) service.MockConfig {
	return service.MockConfig{
		QuestionCount: n,
		Duration:      10 * time.Minute,
		PassPercent:   72,
		TickInterval:  time.Hour,
	}
}

func TestMock_RefusedWhenPoolTooSmall(t *testing.T) {
	svc := service.NewMockService(context.Background(), createContent(39), newState(), service.DefaultMockConfig(), testLogger())

	if _, err := svc.Start(); !errors.Is(err, mockexam.ErrNotEnoughQuestions) {
		t.Fatalf("expected ErrNotEnoughQuestions, got %v", err)
	}
	if _, err := svc.Current(); !errors.Is(err, service.ErrNoActiveExam) {
		t.Errorf("expected no exam, got %v", err)
	}
}

func TestMock_ConcurrentStartsYieldOneExam(t *testing.T) {
	for round := 0; round < 50; round++ {
		svc := service.NewMockService(context.Background(), createContent(5), newState(), mockConfig(5), testLogger())

		var wg sync.WaitGroup
		var mu sync.Mutex
		started := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Start()
				if err == nil {
					mu.Lock()
					started++
					mu.Unlock()
				} else if !errors.Is(err, mockexam.ErrAlreadyStarted) {
					t.Errorf("expected ErrAlreadyStarted, got %v", err)
				}
			}()
		}
		wg.Wait()
		svc.Abandon()

		if started != 1 {
			t.Fatalf("round %d: expected exactly one started exam, got %d", round, started)
		}
	}
}

func TestMock_SubmitPersistsHistoryOnce(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewMockService(ctx, createContent(3), state, mockConfig(3), testLogger()).WithRand(seeded)

	exam, err := svc.Start()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Start(); !errors.Is(err, mockexam.ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	var singles []int
	for _, q := range exam.Questions {
		if q.ID != 100 {
			singles = append(singles, q.ID)
		}
	}
	svc.SetAnswer(singles[0], question.Answer{"A"})
	svc.SetAnswer(singles[1], question.Answer{"B"})

	if _, err := svc.Submit(false); !errors.Is(err, service.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}

	outcome, err := svc.Submit(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Result.CorrectCount != 1 || outcome.Result.Total != 3 || outcome.Passed {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if len(outcome.Result.WrongIDs) != 1 || outcome.Result.WrongIDs[0] != singles[1] {
		t.Errorf("expected wrong [%d], got %v", singles[1], outcome.Result.WrongIDs)
	}

	if _, err := svc.Submit(true); !errors.Is(err, mockexam.ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress on resubmit, got %v", err)
	}

	history, _ := svc.History(ctx)
	if len(history) != 1 || history[0].ID != outcome.History.ID || history[0].CorrectCount != 1 {
		t.Errorf("expected one history entry, got %+v", history)
	}
}

func TestMock_AutoSubmit(t *testing.T) {
	ctx := context.Background()
	state := newState()

	var mu = make(chan struct{}, 1)
	mu <- struct{}{}
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		<-mu
		defer func() { mu <- struct{}{} }()
		return now
	}
	advance := func(d time.Duration) {
		<-mu
		now = now.Add(d)
		mu <- struct{}{}
	}

	config := mockConfig(3)
	config.TickInterval = time.Millisecond
	svc := service.NewMockService(ctx, createContent(3), state, config, testLogger()).WithClock(clock)

	if _, err := svc.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	advance(config.Duration)

	deadline := time.After(2 * time.Second)
	for {
		if outcome, err := svc.LastOutcome(); err == nil {
			if !outcome.Result.Auto {
				t.Error("expected automatic submission")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected auto-submission")
		case <-time.After(5 * time.Millisecond):
		}
	}

	history, _ := svc.History(ctx)
	if len(history) != 1 {
		t.Errorf("expected one history entry, got %d", len(history))
	}
}

func TestMock_Abandon(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMockService(ctx, createContent(3), newState(), mockConfig(3), testLogger())
	svc.Start()

	if err := svc.Abandon(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.LastOutcome(); !errors.Is(err, service.ErrNoOutcome) {
		t.Errorf("expected ErrNoOutcome, got %v", err)
	}
	if history, _ := svc.History(ctx); len(history) != 0 {
		t.Errorf("expected no history, got %d", len(history))
	}
	if _, err := svc.Current(); !errors.Is(err, service.ErrNoActiveExam) {
		t.Errorf("expected no active exam, got %v", err)
	}
}

func TestMock_AddOutcomeToWrongOnce(t *testing.T) {
	ctx := context.Background()
	state := newState()
	state.AddWrong(ctx, 50)
	svc := service.NewMockService(ctx, createContent(2), state, mockConfig(2), testLogger())

	if _, err := svc.AddOutcomeToWrong(ctx); !errors.Is(err, service.ErrNoOutcome) {
		t.Errorf("expected ErrNoOutcome, got %v", err)
	}

	exam, _ := svc.Start()
	for _, q := range exam.Questions {
		svc.SetAnswer(q.ID, question.Answer{"B"})
	}
	svc.Submit(true)

	outcome, err := svc.AddOutcomeToWrong(ctx)
	if err != nil || !outcome.WrongAdded {
		t.Fatalf("expected wrong ids added, got %+v %v", outcome, err)
	}
	state.RemoveWrong(ctx, outcome.Result.WrongIDs[0])
	svc.AddOutcomeToWrong(ctx)

	wrong, _ := state.WrongIDs(ctx)
	if len(wrong) != 2 {
		t.Errorf("expected second call to add nothing, got %v", wrong)
	}
}

func TestMock_HistoryRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewMockService(ctx, createContent(2), state, mockConfig(2), testLogger())

	a, _ := state.AddMockHistory(ctx, progress.MockHistoryEntry{Total: 65})
	state.AddMockHistory(ctx, progress.MockHistoryEntry{Total: 65})

	if err := svc.RemoveHistory(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RemoveHistory(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	svc.ClearHistory(ctx)
	if history, _ := svc.History(ctx); len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}
}

// ============================================================================
// Profile and stats
// ============================================================================

func TestProfile_Toggles(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProfileService(createContent(3), newState(), testLogger())

	if on, err := svc.ToggleFavorite(ctx, 2); err != nil || !on {
		t.Errorf("expected favorite on, got %v %v", on, err)
	}
	if _, err := svc.ToggleFavorite(ctx, 404); !errors.Is(err, service.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
	if _, err := svc.ToggleFavoriteTerm(ctx, "Nope"); !errors.Is(err, service.ErrUnknownTerm) {
		t.Errorf("expected ErrUnknownTerm, got %v", err)
	}
	if on, _ := svc.ToggleFavoriteTerm(ctx, "Amazon S3"); !on {
		t.Error("expected term favorite on")
	}
}

func TestProfile_ClearAll(t *testing.T) {
	ctx := context.Background()
	state := newState()
	svc := service.NewProfileService(createContent(3), state, testLogger())

	svc.ToggleFavorite(ctx, 1)
	svc.UpdateSettings(ctx, progress.Settings{Nickname: "sam", Theme: progress.ThemeFocus})

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	favorites, _ := svc.Favorites(ctx)
	settings, _ := svc.Settings(ctx)
	if len(favorites) != 0 || settings.Nickname != "" || settings.Theme != progress.ThemeRelaxed {
		t.Errorf("expected defaults after clear, got %v %+v", favorites, settings)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.Local)
	state := newState().WithClock(func() time.Time { return now })
	c := createContent(5)

	practice := service.NewPracticeService(c, state, nil, testLogger()).WithClock(func() time.Time { return now })
	res, _ := practice.Start(ctx, practicesession.DefaultConfig())
	practice.Answer(ctx, res.Session.ID, 1, question.Answer{"A"})
	practice.Answer(ctx, res.Session.ID, 2, question.Answer{"B"})
	practice.Answer(ctx, res.Session.ID, 3, question.Answer{"A"})
	state.SetExamDate(ctx, "2026-05-04")

	stats := service.NewStatsService(c, state).WithClock(func() time.Time { return now })

	o, err := stats.Overview(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Done != 3 || o.Correct != 2 || o.WrongCount != 1 || o.TodayCount != 3 || o.PoolSize != 6 {
		t.Errorf("unexpected overview: %+v", o)
	}
	if o.DaysToExam == nil || *o.DaysToExam != 3 {
		t.Errorf("expected 3 days, got %v", o.DaysToExam)
	}

	daily, _ := stats.Daily(ctx)
	if len(daily) != 1 || daily[0].Total != 3 {
		t.Errorf("unexpected daily: %+v", daily)
	}

	windows, _ := stats.Windows(ctx, 2)
	if len(windows) != 2 || windows[1].Total != 1 {
		t.Errorf("unexpected windows: %+v", windows)
	}
}
