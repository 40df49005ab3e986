package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/domain/progress"
	"github.com/examprep/quizcore/internal/store"
)

// ProfileService covers the per-device collections and preferences.
type ProfileService struct {
	content *content.Content
	state   *store.State
	logger  *slog.Logger
}

func NewProfileService(c *content.Content, st *store.State, logger *slog.Logger) *ProfileService {
	return &ProfileService{content: c, state: st, logger: logger}
}

func (s *ProfileService) Favorites(ctx context.Context) ([]int, error) {
	return s.state.FavoriteIDs(ctx)
}

// ToggleFavorite reports whether the question is a favorite afterwards.
func (s *ProfileService) ToggleFavorite(ctx context.Context, questionID int) (bool, error) {
	if _, ok := s.content.Question(questionID); !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	return s.state.ToggleFavorite(ctx, questionID)
}

func (s *ProfileService) Wrong(ctx context.Context) ([]int, error) {
	return s.state.WrongIDs(ctx)
}

func (s *ProfileService) RemoveWrong(ctx context.Context, questionID int) error {
	return s.state.RemoveWrong(ctx, questionID)
}

func (s *ProfileService) FavoriteTerms(ctx context.Context) ([]string, error) {
	return s.state.FavoriteTerms(ctx)
}

func (s *ProfileService) ToggleFavoriteTerm(ctx context.Context, term string) (bool, error) {
	if _, ok := s.content.Term(term); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownTerm, term)
	}
	return s.state.ToggleFavoriteTerm(ctx, term)
}

func (s *ProfileService) Settings(ctx context.Context) (progress.Settings, error) {
	return s.state.Settings(ctx)
}

func (s *ProfileService) UpdateSettings(ctx context.Context, settings progress.Settings) (progress.Settings, error) {
	return s.state.SetSettings(ctx, settings)
}

// ClearAll wipes every persisted value on this device.
func (s *ProfileService) ClearAll(ctx context.Context) error {
	if err := s.state.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all local data cleared")
	return nil
}

// Export returns every persisted value for backup.
func (s *ProfileService) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.state.Export(ctx)
}

// Import restores values produced by Export.
func (s *ProfileService) Import(ctx context.Context, values map[string]json.RawMessage) (int, error) {
	n, err := s.state.Import(ctx, values)
	if err != nil {
		return 0, err
	}
	s.logger.Info("local data imported", "keys", n)
	return n, nil
}
