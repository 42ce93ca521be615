package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotspot-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(map[string]domain.Catalog{
			"fortress": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(loader)

	if _, err := repo.GetCatalog(context.Background(), "fortress"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	catalog, err := repo.GetCatalog(context.Background(), "fortress")
	if err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(catalog.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(catalog.Items))
	}
}

func TestCatalogRepositoryRejectsInvalidCatalog(t *testing.T) {
	broken := sampleCatalog()
	broken.Items[1].ID = broken.Items[0].ID
	repo := NewCatalogRepository(NewStaticCatalogLoader(map[string]domain.Catalog{"fortress": broken}))

	if err := repo.Preload(context.Background(), "fortress"); !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Fatalf("expected invalid catalog error, got %v", err)
	}
	if _, err := repo.GetCatalog(context.Background(), "missing"); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CatalogLoader.LoadCatalog(ctx, catalogID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID:       "fortress",
		Title:    "Fortress",
		ImageURL: "https://example.com/fortress.jpeg",
		Items: []domain.QuizItem{
			{ID: 1, Name: "White monk", Question: "Click the White monk", Position: domain.Position{Top: "24%", Left: "13.7%"}},
			{ID: 2, Name: "Grey monk", Question: "Click the Grey monk", Position: domain.Position{Top: "30%", Left: "90.5%"}},
		},
	}
}

func TestChainLoaderFallsThrough(t *testing.T) {
	other := sampleCatalog()
	other.ID = "harbour"
	chain := ChainLoader{
		NewStaticCatalogLoader(map[string]domain.Catalog{"harbour": other}),
		NewStaticCatalogLoader(map[string]domain.Catalog{"fortress": sampleCatalog()}),
	}

	for _, id := range []string{"harbour", "fortress"} {
		catalog, err := chain.LoadCatalog(context.Background(), id)
		if err != nil || catalog.ID != id {
			t.Fatalf("expected %s, got %+v (%v)", id, catalog, err)
		}
	}
	if _, err := chain.LoadCatalog(context.Background(), "nowhere"); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
