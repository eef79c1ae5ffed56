package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/services"
)

// recordingPublisher keeps every published snapshot in order
type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []models.Snapshot
}

func (p *recordingPublisher) Publish(s models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
}

func (p *recordingPublisher) all() []models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Snapshot(nil), p.snapshots...)
}

func (p *recordingPublisher) last(t *testing.T) models.Snapshot {
	t.Helper()
	all := p.all()
	if len(all) == 0 {
		t.Fatal("expected a published snapshot")
	}
	return all[len(all)-1]
}

type testServices struct {
	pub      *recordingPublisher
	sessions *services.SessionService
	category *services.CategoryService
	skaters  *services.SkaterService
	programs *services.ProgramService
	results  *services.ResultsService
}

func newServices(repo repository.FullRepository) *testServices {
	log := logger.Discard()
	cat := catalog.Default()
	pub := &recordingPublisher{}
	return &testServices{
		pub:      pub,
		sessions: services.NewSessionService(log, repo),
		category: services.NewCategoryService(log, repo, cat, pub),
		skaters:  services.NewSkaterService(log, repo),
		programs: services.NewProgramService(log, repo, cat, pub),
		results:  services.NewResultsService(log, repo),
	}
}

func assertKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := errors.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, got, err)
	}
}

// setMarks assigns the same mark to every component
func setMarks(t *testing.T, svc *services.ProgramService, id int64, mark float64) {
	t.Helper()
	for _, name := range catalog.ComponentNames {
		if _, err := svc.SetComponent(context.Background(), id, name, mark); err != nil {
			t.Fatalf("SetComponent(%s) failed: %v", name, err)
		}
	}
}

// skate records a whole program: start, the given solo jumps at grade 0,
// stop and the component marks
func skate(t *testing.T, svc *services.ProgramService, id int64, mark float64, jumps ...string) *scoring.Program {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Start(ctx, id); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, code := range jumps {
		if _, err := svc.EnterElement(ctx, id, string(scoring.SoloJump), scoring.ElementInput{Code: code}); err != nil {
			t.Fatalf("EnterElement(%s) failed: %v", code, err)
		}
	}
	if _, err := svc.Stop(ctx, id); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	setMarks(t, svc, id, mark)
	p, err := svc.GetProgram(ctx, id)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	return p
}
