package services_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/repository/mock"
	"github.com/abrezinsky/rollart/internal/services"
	"github.com/abrezinsky/rollart/internal/testutil"
)

func TestSkaterService_CRUD(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := newServices(repo).skaters
	ctx := context.Background()
	_, c, _ := testutil.SeedCategory(t, repo, true, false)

	alice, err := svc.CreateSkater(ctx, c.ID, services.Skater{Name: " Alice ", Team: " Reds "})
	if err != nil {
		t.Fatalf("CreateSkater failed: %v", err)
	}
	bob, err := svc.CreateSkater(ctx, c.ID, services.Skater{Name: "Bob"})
	if err != nil {
		t.Fatalf("CreateSkater failed: %v", err)
	}
	if alice.Name != "Alice" || alice.Team != "Reds" || alice.Order != 1 || bob.Order != 2 {
		t.Errorf("unexpected skaters: %+v %+v", alice, bob)
	}

	updated, err := svc.UpdateSkater(ctx, bob.ID, services.Skater{Name: "Roberto", Team: "Blues", Order: 3})
	if err != nil {
		t.Fatalf("UpdateSkater failed: %v", err)
	}
	if updated.Name != "Roberto" || updated.Team != "Blues" || updated.Order != 3 {
		t.Errorf("unexpected update: %+v", updated)
	}

	got, err := svc.GetSkater(ctx, bob.ID)
	if err != nil || got.Name != "Roberto" {
		t.Fatalf("GetSkater returned %+v (%v)", got, err)
	}

	if err := svc.DeleteSkater(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteSkater failed: %v", err)
	}
	list, err := svc.ListSkaters(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListSkaters failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != bob.ID {
		t.Errorf("unexpected list after delete: %+v", list)
	}
}

func TestSkaterService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		repo := testutil.NewTestRepository(t)
		_, c, _ := testutil.SeedCategory(t, repo, true, false)
		_, err := newServices(repo).skaters.CreateSkater(ctx, c.ID, services.Skater{Name: " "})
		assertKind(t, err, apperrors.ErrValidation)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := newServices(testutil.NewTestRepository(t)).skaters.CreateSkater(ctx, 7, services.Skater{Name: "Alice"})
		assertKind(t, err, apperrors.ErrNotFound)
	})

	t.Run("missing skater", func(t *testing.T) {
		svc := newServices(testutil.NewTestRepository(t)).skaters
		_, err := svc.UpdateSkater(ctx, 7, services.Skater{Name: "Alice"})
		assertKind(t, err, apperrors.ErrNotFound)
		assertKind(t, svc.DeleteSkater(ctx, 7), apperrors.ErrNotFound)
	})

	t.Run("create storage", func(t *testing.T) {
		base := testutil.NewTestRepository(t)
		_, c, _ := testutil.SeedCategory(t, base, true, false)
		repo := mock.NewRepository(base)
		repo.CreateSkaterError = errors.New("database error")
		_, err := newServices(repo).skaters.CreateSkater(ctx, c.ID, services.Skater{Name: "Alice"})
		assertKind(t, err, apperrors.ErrStorage)
	})
}
