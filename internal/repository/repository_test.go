package repository

import (
	"context"
	"testing"

	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedCategory(t *testing.T, repo *Repository) (*scoring.Session, *scoring.Category) {
	t.Helper()
	ctx := context.Background()

	session := &scoring.Session{Name: "Regional", Open: true}
	if _, err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	category := &scoring.Category{SessionID: session.ID, Name: "Cadetti", Short: true, Long: true}
	if _, err := repo.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	return session, category
}

// ==================== Session Tests ====================

func TestSessions_OpenSessionLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exists, err := repo.OpenSessionExists(ctx)
	if err != nil {
		t.Fatalf("OpenSessionExists failed: %v", err)
	}
	if exists {
		t.Fatal("expected no open session in a fresh database")
	}
	if _, err := repo.GetOpenSession(ctx); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	s := &scoring.Session{Name: "Nationals", Open: true}
	id, err := repo.CreateSession(ctx, s)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	open, err := repo.GetOpenSession(ctx)
	if err != nil {
		t.Fatalf("GetOpenSession failed: %v", err)
	}
	if open.ID != id || open.Name != "Nationals" || !open.Open {
		t.Errorf("unexpected open session %+v", open)
	}

	if err := repo.SetSessionOpen(ctx, id, false); err != nil {
		t.Fatalf("SetSessionOpen failed: %v", err)
	}
	if exists, _ := repo.OpenSessionExists(ctx); exists {
		t.Error("expected no open session after close")
	}
	if err := repo.SetSessionOpen(ctx, 999, true); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown session, got %v", err)
	}

	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(sessions))
	}
}

// ==================== Category Tests ====================

func TestCategories_CreateUpdateList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	session, category := seedCategory(t, repo)

	if category.Status != scoring.CategoryUnstarted {
		t.Errorf("expected new category UNSTARTED, got %s", category.Status)
	}

	second := &scoring.Category{SessionID: session.ID, Name: "Allievi", Long: true, Order: -1}
	if _, err := repo.CreateCategory(ctx, second); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	list, err := repo.ListCategories(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Allievi" {
		t.Fatalf("expected Allievi first by display order, got %+v", list)
	}

	if err := repo.SetCategoryStatus(ctx, category.ID, scoring.CategoryLong); err != nil {
		t.Fatalf("SetCategoryStatus failed: %v", err)
	}
	got, err := repo.GetCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if got.Status != scoring.CategoryLong || !got.Short || !got.Long {
		t.Errorf("unexpected category %+v", got)
	}

	got.Name = "Cadetti A"
	if err := repo.UpdateCategory(ctx, got); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if err := repo.DeleteCategory(ctx, second.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := repo.GetCategory(ctx, second.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// ==================== Skater Tests ====================

func TestSkaters_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	session, category := seedCategory(t, repo)

	alice := &scoring.Skater{CategoryID: category.ID, Name: "Alice", Team: "Roma", Order: 2}
	bea := &scoring.Skater{CategoryID: category.ID, Name: "Bea", Order: 1}
	for _, s := range []*scoring.Skater{alice, bea} {
		if _, err := repo.CreateSkater(ctx, s); err != nil {
			t.Fatalf("CreateSkater failed: %v", err)
		}
	}

	list, err := repo.ListSkaters(ctx, category.ID)
	if err != nil {
		t.Fatalf("ListSkaters failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Bea" {
		t.Fatalf("expected Bea first in starting order, got %+v", list)
	}

	alice.Record(scoring.SegmentShort, 27)
	if err := repo.UpdateSkater(ctx, alice); err != nil {
		t.Fatalf("UpdateSkater failed: %v", err)
	}
	got, err := repo.GetSkater(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetSkater failed: %v", err)
	}
	if got.Status != scoring.SkaterShortEnd || got.ShortScore != 27 || got.TotalScore != 27 || got.Team != "Roma" {
		t.Errorf("unexpected skater %+v", got)
	}

	all, err := repo.ListSessionSkaters(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListSessionSkaters failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 session skaters, got %d", len(all))
	}

	if err := repo.DeleteSkater(ctx, bea.ID); err != nil {
		t.Fatalf("DeleteSkater failed: %v", err)
	}
	if err := repo.DeleteSkater(ctx, bea.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSkaters_SettleWritesSkaterAndCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, category := seedCategory(t, repo)

	alice := &scoring.Skater{CategoryID: category.ID, Name: "Alice", Order: 1}
	if _, err := repo.CreateSkater(ctx, alice); err != nil {
		t.Fatalf("CreateSkater failed: %v", err)
	}

	alice.Record(scoring.SegmentShort, 27.5)
	if err := repo.SettleSkater(ctx, alice, scoring.CategoryLong); err != nil {
		t.Fatalf("SettleSkater failed: %v", err)
	}

	got, _ := repo.GetSkater(ctx, alice.ID)
	if got.Status != scoring.SkaterShortEnd || got.ShortScore != 27.5 {
		t.Errorf("unexpected skater %+v", got)
	}
	c, _ := repo.GetCategory(ctx, category.ID)
	if c.Status != scoring.CategoryLong {
		t.Errorf("expected category status LONG, got %s", c.Status)
	}

	// A missing category rolls the skater back
	orphan := *got
	orphan.CategoryID = 999
	orphan.Record(scoring.SegmentLong, 20)
	if err := repo.SettleSkater(ctx, &orphan, scoring.CategoryEnd); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, _ = repo.GetSkater(ctx, alice.ID)
	if got.Status != scoring.SkaterShortEnd || got.LongScore != 0 {
		t.Errorf("expected the skater write to be rolled back, got %+v", got)
	}
}

// ==================== Program Tests ====================

func TestPrograms_SaveAndLoadAggregate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	cat := catalog.Default()
	_, category := seedCategory(t, repo)

	skater := &scoring.Skater{CategoryID: category.ID, Name: "Alice", Team: "Roma"}
	if _, err := repo.CreateSkater(ctx, skater); err != nil {
		t.Fatalf("CreateSkater failed: %v", err)
	}

	p := scoring.NewProgram(skater.Name, scoring.SegmentShort)
	p.CategoryID = category.ID
	p.SkaterID = skater.ID
	p.Team = skater.Team
	if err := p.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := p.EnterElement(cat, scoring.ComboSpin, scoring.ElementInput{Code: "U", Bonus: []string{"Fw", "SBC"}}); err != nil {
		t.Fatalf("EnterElement failed: %v", err)
	}
	if _, err := p.EnterElement(cat, scoring.ComboSpin, scoring.ElementInput{Code: "S"}); err != nil {
		t.Fatalf("EnterElement failed: %v", err)
	}
	if _, err := p.SetGrade(cat, 1, 1, -1); err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}

	if err := repo.SaveProgram(ctx, p); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected program id to be assigned")
	}

	got, err := repo.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if got.Status != scoring.StatusStart || got.SkaterID != skater.ID || got.Segment != scoring.SegmentShort {
		t.Errorf("unexpected program header %+v", got)
	}
	if len(got.Boxes) != 2 {
		t.Fatalf("expected 2 boxes (combo and trailing), got %d", len(got.Boxes))
	}
	combo := got.Boxes[0]
	if combo.Type != scoring.ComboSpin || len(combo.Elements) != 2 {
		t.Fatalf("unexpected first box %+v", combo)
	}
	if combo.Elements[0].Kind != catalog.KindSpin || len(combo.Elements[0].Bonus) != 2 {
		t.Errorf("element kind or bonus not restored: %+v", combo.Elements[0])
	}
	if combo.Elements[1].Grade != -1 || combo.Elements[1].StaredValue != 1.3 {
		t.Errorf("expected grade -1 valued 1.3, got %+v", combo.Elements[1])
	}
	if got.TechnicalScore != p.TechnicalScore {
		t.Errorf("technical score %v not persisted, got %v", p.TechnicalScore, got.TechnicalScore)
	}
	if got.LastElement == nil || got.LastElement.Code != "S" {
		t.Errorf("expected last element S to be restored, got %+v", got.LastElement)
	}

	// saving again replaces the boxes
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := repo.SaveProgram(ctx, p); err != nil {
		t.Fatalf("SaveProgram (update) failed: %v", err)
	}
	found, err := repo.FindProgram(ctx, skater.ID, scoring.SegmentShort)
	if err != nil {
		t.Fatalf("FindProgram failed: %v", err)
	}
	if found.ID != p.ID || len(found.Boxes) != 1 || found.Status != scoring.StatusStop {
		t.Errorf("unexpected program after update: id=%d boxes=%d status=%s", found.ID, len(found.Boxes), found.Status)
	}

	if _, err := repo.FindProgram(ctx, skater.ID, scoring.SegmentLong); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for long program, got %v", err)
	}

	list, err := repo.ListPrograms(ctx, category.ID, scoring.SegmentShort)
	if err != nil {
		t.Fatalf("ListPrograms failed: %v", err)
	}
	if len(list) != 1 || len(list[0].Boxes) != 1 {
		t.Errorf("unexpected program list %+v", list)
	}

	if err := repo.DeleteProgram(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}
	if _, err := repo.GetProgram(ctx, p.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPrograms_SoloProgramHasNoCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := scoring.NewProgram("Guest", scoring.Segment("Exhibition"))
	if err := repo.SaveProgram(ctx, p); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}
	got, err := repo.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if got.CategoryID != 0 || got.SkaterID != 0 || got.Segment != "Exhibition" {
		t.Errorf("unexpected solo program %+v", got)
	}
}

func TestPrograms_UpdateMissingProgram(t *testing.T) {
	repo := newTestRepo(t)
	p := scoring.NewProgram("Ghost", scoring.SegmentLong)
	p.ID = 42
	if err := repo.SaveProgram(context.Background(), p); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Settings Tests ====================

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	value, err := repo.GetSetting(ctx, "livescore_url")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty default, got %q", value)
	}

	if err := repo.SetSetting(ctx, "livescore_url", "http://scores.local"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if value, _ := repo.GetSetting(ctx, "livescore_url"); value != "http://scores.local" {
		t.Errorf("expected updated value, got %q", value)
	}
	if _, err := repo.GetSetting(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClearTable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCategory(t, repo)

	if err := repo.ClearTable(ctx, "sessions; DROP TABLE settings"); err != ErrInvalidTable {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}
	if err := repo.ClearTable(ctx, "sessions"); err != nil {
		t.Fatalf("ClearTable failed: %v", err)
	}
	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
