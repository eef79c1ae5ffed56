package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/rollart/internal/catalog"
	apperrors "github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/repository/mock"
	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/services"
	"github.com/abrezinsky/rollart/internal/testutil"
)

func TestProgramService_StartSolo(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()

	tests := []struct {
		name, skater, program string
	}{
		{"no skater", "", "Free"},
		{"no program", "Alice", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.programs.StartSolo(ctx, tt.skater, tt.program)
			assertKind(t, err, apperrors.ErrValidation)
		})
	}

	p, err := svc.programs.StartSolo(ctx, "Alice", "Exhibition")
	if err != nil {
		t.Fatalf("StartSolo failed: %v", err)
	}
	if p.ID == 0 || p.Segment != "Exhibition" || p.Status != scoring.StatusStop {
		t.Errorf("unexpected solo program: %+v", p)
	}
	if snap := svc.pub.last(t); snap.Event != models.EventProgramOpened || snap.Rank != 0 || snap.Category != "" {
		t.Errorf("unexpected solo snapshot: %+v", snap)
	}
}

func TestProgramService_SoloScenario(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()

	p, err := svc.programs.StartSolo(ctx, "Alice", "Free")
	if err != nil {
		t.Fatalf("StartSolo failed: %v", err)
	}
	if _, err := svc.programs.Start(ctx, p.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.programs.EnterElement(ctx, p.ID, "SoloJump", scoring.ElementInput{Code: "2A"}); err != nil {
		t.Fatalf("EnterElement failed: %v", err)
	}

	snap := svc.pub.last(t)
	if snap.Event != models.EventElement || snap.LastElement != "2A" || snap.LastElementValue != 3.5 || snap.RunningScore != 3.5 {
		t.Errorf("unexpected element snapshot: %+v", snap)
	}

	if _, err := svc.programs.SetGrade(ctx, p.ID, 1, 0, 2); err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}
	if snap := svc.pub.last(t); snap.Event != models.EventScore || snap.LastElement != "2A" || snap.LastElementValue != 3.5 {
		t.Errorf("expected the grade snapshot to carry the last element, got %+v", snap)
	}
	if _, err := svc.programs.Stop(ctx, p.ID); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	setMarks(t, svc.programs, p.ID, 6)
	got, err := svc.programs.Fall(ctx, p.ID)
	if err != nil {
		t.Fatalf("Fall failed: %v", err)
	}

	if got.TechnicalScore != 4.0 || got.ComponentsScore != 24 || got.Penalization != 1 {
		t.Errorf("unexpected partial scores: %+v", got)
	}
	if got.Score != 27.0 || got.TotalScore != 27.0 {
		t.Errorf("expected score and total 27.0, got %v / %v", got.Score, got.TotalScore)
	}

	// Stored state matches the returned one
	stored, err := svc.programs.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if stored.Score != 27.0 || len(stored.Boxes) != 1 || stored.Status != scoring.StatusStop {
		t.Errorf("unexpected stored program: score=%v boxes=%d status=%s", stored.Score, len(stored.Boxes), stored.Status)
	}

	settled, err := svc.programs.Confirm(ctx, p.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if settled.Next != nil || settled.Skater != nil {
		t.Errorf("solo programs have no skater record: %+v", settled)
	}
	if snap := svc.pub.last(t); snap.Event != models.EventConfirmed || snap.SegmentScore != 27.0 {
		t.Errorf("unexpected confirm snapshot: %+v", snap)
	}
}

func TestProgramService_RejectedCommandsLeaveStateUntouched(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()

	p, _ := svc.programs.StartSolo(ctx, "Alice", "Free")
	svc.programs.Start(ctx, p.ID)
	svc.programs.EnterElement(ctx, p.ID, "SoloJump", scoring.ElementInput{Code: "2A"})
	published := len(svc.pub.all())

	tests := []struct {
		name string
		kind apperrors.Kind
		run  func() error
	}{
		{"grade out of range", apperrors.ErrValidation, func() error {
			_, err := svc.programs.SetGrade(ctx, p.ID, 1, 0, 4)
			return err
		}},
		{"unknown element", apperrors.ErrValidation, func() error {
			_, err := svc.programs.EnterElement(ctx, p.ID, "SoloJump", scoring.ElementInput{Code: "9Q"})
			return err
		}},
		{"wrong kind for box", apperrors.ErrValidation, func() error {
			_, err := svc.programs.EnterElement(ctx, p.ID, "SoloSpin", scoring.ElementInput{Code: "2A"})
			return err
		}},
		{"unknown box type", apperrors.ErrValidation, func() error {
			_, err := svc.programs.SetBoxType(ctx, p.ID, "Lift")
			return err
		}},
		{"start twice", apperrors.ErrState, func() error {
			_, err := svc.programs.Start(ctx, p.ID)
			return err
		}},
		{"edit earlier box while running", apperrors.ErrState, func() error {
			_, err := svc.programs.EditBox(ctx, p.ID, 1, "SoloJump", []scoring.ElementInput{{Code: "2T"}})
			return err
		}},
		{"remove non-trailing box", apperrors.ErrState, func() error {
			_, err := svc.programs.RemoveBox(ctx, p.ID, 1)
			return err
		}},
		{"missing element", apperrors.ErrNotFound, func() error {
			_, err := svc.programs.SetStar(ctx, p.ID, 1, 3, true)
			return err
		}},
		{"negative deduction", apperrors.ErrValidation, func() error {
			_, err := svc.programs.Deduct(ctx, p.ID, -1)
			return err
		}},
		{"component out of range", apperrors.ErrValidation, func() error {
			_, err := svc.programs.SetComponent(ctx, p.ID, catalog.Performance, 11)
			return err
		}},
		{"confirm while running", apperrors.ErrValidation, func() error {
			_, err := svc.programs.Confirm(ctx, p.ID)
			return err
		}},
		{"skip while running", apperrors.ErrValidation, func() error {
			_, err := svc.programs.Skip(ctx, p.ID)
			return err
		}},
		{"missing program", apperrors.ErrNotFound, func() error {
			_, err := svc.programs.Fall(ctx, 999)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKind(t, tt.run(), tt.kind)
		})
	}

	stored, err := svc.programs.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if stored.TechnicalScore != 3.5 || len(stored.Boxes) != 2 || stored.Boxes[0].Elements[0].Grade != 0 {
		t.Errorf("program changed by rejected commands: %+v", stored)
	}
	if len(svc.pub.all()) != published {
		t.Errorf("rejected commands must not publish")
	}
}

func TestProgramService_BoxLifecycle(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()
	p, _ := svc.programs.StartSolo(ctx, "Alice", "Free")

	got, err := svc.programs.Start(ctx, p.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(got.Boxes) != 1 || got.Boxes[0].Order != 1 {
		t.Fatalf("expected one open box, got %+v", got.Boxes)
	}

	// Remove the sole empty box and enter again
	if got, err = svc.programs.RemoveBox(ctx, p.ID, 1); err != nil {
		t.Fatalf("RemoveBox failed: %v", err)
	}
	if len(got.Boxes) != 0 {
		t.Fatalf("expected no boxes, got %d", len(got.Boxes))
	}
	if got, err = svc.programs.SetBoxType(ctx, p.ID, "ComboJump"); err != nil {
		t.Fatalf("SetBoxType failed: %v", err)
	}
	if got.Boxes[0].Order != 1 || got.Boxes[0].Type != scoring.ComboJump {
		t.Errorf("unexpected box: %+v", got.Boxes[0])
	}

	// A combo needs both jumps before the next box opens
	if got, err = svc.programs.EnterElement(ctx, p.ID, "ComboJump", scoring.ElementInput{Code: "2A"}); err != nil {
		t.Fatalf("EnterElement failed: %v", err)
	}
	if len(got.Boxes) != 1 || !got.Boxes[0].NeedsElement() {
		t.Fatalf("expected combo box to wait for its second element")
	}
	if got, err = svc.programs.EnterElement(ctx, p.ID, "ComboJump", scoring.ElementInput{Code: "2T"}); err != nil {
		t.Fatalf("EnterElement failed: %v", err)
	}
	if len(got.Boxes) != 2 || got.Boxes[1].Order != 2 || !got.Boxes[1].Empty() {
		t.Fatalf("expected trailing open box 2, got %+v", got.Boxes)
	}
	if got.TechnicalScore != 4.8 {
		t.Errorf("expected technical 4.8, got %v", got.TechnicalScore)
	}

	if got, err = svc.programs.Stop(ctx, p.ID); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if len(got.Boxes) != 1 {
		t.Fatalf("stop should drop the empty trailing box, got %d boxes", len(got.Boxes))
	}

	// Stopped programs may re-declare any box
	got, err = svc.programs.EditBox(ctx, p.ID, 1, "SoloJump", []scoring.ElementInput{{Code: "3T"}})
	if err != nil {
		t.Fatalf("EditBox failed: %v", err)
	}
	if got.TechnicalScore != 4.2 {
		t.Errorf("expected technical 4.2 after edit, got %v", got.TechnicalScore)
	}

	// Star and time
	if got, err = svc.programs.SetTime(ctx, p.ID, 1, 0, true); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	if !got.Boxes[0].Elements[0].Time || got.TechnicalScore != 4.2 {
		t.Errorf("time must be recorded without changing scores")
	}
	if got, err = svc.programs.SetStar(ctx, p.ID, 1, 0, true); err != nil {
		t.Fatalf("SetStar failed: %v", err)
	}
	if got.TechnicalScore != 0 {
		t.Errorf("starred element must not count, got %v", got.TechnicalScore)
	}
}

func TestProgramService_ConfirmNeedsComponents(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()
	p, _ := svc.programs.StartSolo(ctx, "Alice", "Free")

	if _, err := svc.programs.SetComponent(ctx, p.ID, catalog.SkatingSkills, 5); err != nil {
		t.Fatalf("SetComponent failed: %v", err)
	}
	_, err := svc.programs.Confirm(ctx, p.ID)
	assertKind(t, err, apperrors.ErrValidation)

	// Skip only needs the program stopped
	if _, err := svc.programs.Skip(ctx, p.ID); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
}

func TestProgramService_StorageErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("database error")

	t.Run("save", func(t *testing.T) {
		repo := mock.NewRepository(testutil.NewTestRepository(t))
		svc := newServices(repo)
		p, err := svc.programs.StartSolo(ctx, "Alice", "Free")
		if err != nil {
			t.Fatalf("StartSolo failed: %v", err)
		}
		published := len(svc.pub.all())

		repo.SaveProgramError = dbErr
		_, err = svc.programs.Start(ctx, p.ID)
		assertKind(t, err, apperrors.ErrStorage)
		if len(svc.pub.all()) != published {
			t.Error("failed saves must not publish")
		}

		repo.SaveProgramError = nil
		stored, _ := svc.programs.GetProgram(ctx, p.ID)
		if stored.Running() {
			t.Error("program should still be stopped")
		}
	})

	t.Run("load", func(t *testing.T) {
		repo := mock.NewRepository(testutil.NewTestRepository(t))
		repo.GetProgramError = dbErr
		_, err := newServices(repo).programs.Start(ctx, 1)
		assertKind(t, err, apperrors.ErrStorage)
	})

	t.Run("solo save", func(t *testing.T) {
		repo := mock.NewRepository(testutil.NewTestRepository(t))
		repo.SaveProgramError = dbErr
		_, err := newServices(repo).programs.StartSolo(ctx, "Alice", "Free")
		assertKind(t, err, apperrors.ErrStorage)
	})

	t.Run("skater update on confirm", func(t *testing.T) {
		base := testutil.NewTestRepository(t)
		repo := mock.NewRepository(base)
		_, c, _ := testutil.SeedCategory(t, base, true, false, "Alice")
		svc := newServices(repo)
		res, err := svc.category.Resume(ctx, c.ID)
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
		setMarks(t, svc.programs, res.Program.ID, 5)

		repo.SettleSkaterError = dbErr
		_, err = svc.programs.Confirm(ctx, res.Program.ID)
		assertKind(t, err, apperrors.ErrStorage)

		stored, _ := base.GetSkater(ctx, res.Skater.ID)
		if stored.Status != scoring.SkaterNone || stored.ShortScore != 0 {
			t.Errorf("expected the skater record untouched, got %+v", stored)
		}
	})
}

func TestProgramService_UpdateElement(t *testing.T) {
	svc := newServices(testutil.NewTestRepository(t))
	ctx := context.Background()

	p, _ := svc.programs.StartSolo(ctx, "Alice", "Free")
	svc.programs.Start(ctx, p.ID)
	svc.programs.EnterElement(ctx, p.ID, "SoloJump", scoring.ElementInput{Code: "2A"})
	published := len(svc.pub.all())

	grade, star, timed := 2, true, true
	got, err := svc.programs.UpdateElement(ctx, p.ID, 1, 0, services.ElementUpdate{Grade: &grade, Star: &star, Time: &timed})
	if err != nil {
		t.Fatalf("UpdateElement failed: %v", err)
	}
	el := got.Boxes[0].Elements[0]
	if el.Grade != 2 || !el.Star || !el.Time || el.StaredValue != 0 {
		t.Errorf("unexpected element %+v", el)
	}
	if n := len(svc.pub.all()) - published; n != 1 {
		t.Errorf("expected one snapshot for the whole update, got %d", n)
	}

	_, err = svc.programs.UpdateElement(ctx, p.ID, 1, 0, services.ElementUpdate{})
	assertKind(t, err, apperrors.ErrValidation)

	// A rejected grade drops the other changes
	bad, unstar := 5, false
	_, err = svc.programs.UpdateElement(ctx, p.ID, 1, 0, services.ElementUpdate{Grade: &bad, Star: &unstar})
	assertKind(t, err, apperrors.ErrValidation)
	stored, _ := svc.programs.GetProgram(ctx, p.ID)
	if el := stored.Boxes[0].Elements[0]; el.Grade != 2 || !el.Star {
		t.Errorf("expected the stored element untouched, got %+v", el)
	}
}

func TestProgramService_UpdateElementStorageFailure(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := newServices(repo)
	ctx := context.Background()

	p, _ := svc.programs.StartSolo(ctx, "Alice", "Free")
	svc.programs.Start(ctx, p.ID)
	svc.programs.EnterElement(ctx, p.ID, "SoloJump", scoring.ElementInput{Code: "2A"})

	repo.SaveProgramError = errors.New("disk full")
	grade, star := 3, true
	_, err := svc.programs.UpdateElement(ctx, p.ID, 1, 0, services.ElementUpdate{Grade: &grade, Star: &star})
	assertKind(t, err, apperrors.ErrStorage)

	repo.SaveProgramError = nil
	stored, _ := svc.programs.GetProgram(ctx, p.ID)
	if el := stored.Boxes[0].Elements[0]; el.Grade != 0 || el.Star {
		t.Errorf("expected no change after a failed save, got %+v", el)
	}
}
