package app

import (
	"context"

	"hotspot-quiz-service/internal/domain"
)

// SessionRepository abstracts where player controllers live (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(key string, create func() *Controller) *Controller
	Get(key string) (*Controller, bool)
	DeleteIfEmpty(key string)
}

// CatalogRepository loads validated catalogs.
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// QuizService maps (catalog, session) pairs onto controllers.
type QuizService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	opts     []Option
}

// NewQuizService wires the use cases; opts are applied to every controller it creates.
func NewQuizService(store SessionRepository, catalogs CatalogRepository, opts ...Option) *QuizService {
	return &QuizService{sessions: store, catalogs: catalogs, opts: opts}
}

// SessionKey is the store key of a player's round on a catalog.
func SessionKey(catalogID, sessionID string) string {
	return catalogID + "/" + sessionID
}

// Catalog returns a catalog by ID.
func (s *QuizService) Catalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	return s.catalogs.GetCatalog(ctx, catalogID)
}

// Start creates the player's controller if needed and leaves the loading phase.
func (s *QuizService) Start(ctx context.Context, catalogID, sessionID string) (domain.View, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return domain.View{}, err
	}

	ctrl := s.sessions.GetOrCreate(SessionKey(catalogID, sessionID), func() *Controller {
		return NewController(catalog, s.opts...)
	})
	return ctrl.Start(), nil
}

// Click forwards a hotspot click to the player's controller.
func (s *QuizService) Click(_ context.Context, catalogID, sessionID string, itemID int) (Outcome, domain.View, error) {
	ctrl, ok := s.sessions.Get(SessionKey(catalogID, sessionID))
	if !ok {
		return OutcomeIgnored, domain.View{}, domain.ErrSessionNotFound
	}
	outcome, view := ctrl.HandleClick(itemID)
	return outcome, view, nil
}

// Reset starts a new round for the player.
func (s *QuizService) Reset(_ context.Context, catalogID, sessionID string) (domain.View, error) {
	ctrl, ok := s.sessions.Get(SessionKey(catalogID, sessionID))
	if !ok {
		return domain.View{}, domain.ErrSessionNotFound
	}
	return ctrl.Reset(), nil
}

// View returns the player's current snapshot.
func (s *QuizService) View(_ context.Context, catalogID, sessionID string) (domain.View, error) {
	ctrl, ok := s.sessions.Get(SessionKey(catalogID, sessionID))
	if !ok {
		return domain.View{}, domain.ErrSessionNotFound
	}
	return ctrl.View(), nil
}

// Subscribe returns a channel that receives every snapshot of the player's round.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, catalogID, sessionID string) (<-chan domain.View, func(), error) {
	ctrl, ok := s.sessions.Get(SessionKey(catalogID, sessionID))
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := ctrl.Subscribe()
	return ch, cancel, nil
}

// Leave drops the player's round once nobody is watching it.
func (s *QuizService) Leave(_ context.Context, catalogID, sessionID string) {
	s.sessions.DeleteIfEmpty(SessionKey(catalogID, sessionID))
}
