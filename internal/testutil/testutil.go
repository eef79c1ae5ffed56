package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedCategory stores an open session, one category and its skaters in
// starting order. Skater names may carry a team as "Name/Team".
func SeedCategory(t *testing.T, repo repository.FullRepository, short, long bool, skaters ...string) (*scoring.Session, *scoring.Category, []*scoring.Skater) {
	t.Helper()
	ctx := context.Background()

	session, err := repo.GetOpenSession(ctx)
	if err == repository.ErrNotFound {
		session = &scoring.Session{Name: "Test Trophy", Open: true}
		if _, err := repo.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	} else if err != nil {
		t.Fatalf("GetOpenSession failed: %v", err)
	}

	category := &scoring.Category{SessionID: session.ID, Name: "Juniores", Short: short, Long: long}
	if _, err := repo.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	out := make([]*scoring.Skater, 0, len(skaters))
	for i, entry := range skaters {
		name, team, _ := strings.Cut(entry, "/")
		s := &scoring.Skater{CategoryID: category.ID, Name: name, Team: team, Order: i + 1}
		if _, err := repo.CreateSkater(ctx, s); err != nil {
			t.Fatalf("CreateSkater failed: %v", err)
		}
		out = append(out, s)
	}
	return session, category, out
}
