package calibration

import (
	"context"
	"errors"
	"testing"
)

type stubStore struct {
	puts    []Override
	putErr  error
	deletes int
}

func (s *stubStore) Put(_ context.Context, o Override) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts = append(s.puts, o)
	return nil
}

func (s *stubStore) Get(context.Context, string, string) (Override, bool, error) {
	return Override{}, false, nil
}

func (s *stubStore) List(context.Context) ([]Override, error) { return nil, nil }

func (s *stubStore) Delete(context.Context, string, string) error {
	s.deletes++
	return nil
}

func TestWizardHappyPath(t *testing.T) {
	store := &stubStore{}
	w, err := NewWizard(store, "kiosk-1", "shelf-29x90")
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	if w.Step() != StepGenerate {
		t.Fatalf("fresh wizard at step %s", w.Step())
	}

	if err := w.MarkGenerated(); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatal("generate step must not write the store")
	}

	m := Measurement{HorizontalMm: 50.5, VerticalMm: 20.2, CornerOffsetXMm: 0.3, CornerOffsetYMm: 0.1}
	if err := w.Enter(m); err != nil {
		t.Fatalf("enter measurements: %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatal("measure step must not write the store")
	}
	pending, ok := w.Pending()
	if !ok {
		t.Fatal("no pending override after measurements")
	}
	if pending.ScaleX != 1.01 {
		t.Fatalf("pending ScaleX = %v, want 1.01", pending.ScaleX)
	}

	saved, err := w.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if w.Step() != StepDone {
		t.Fatalf("wizard at step %s after save", w.Step())
	}
	if len(store.puts) != 1 {
		t.Fatalf("store received %d writes, want exactly 1", len(store.puts))
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("saved override missing timestamp")
	}
}

func TestWizardStepOrderEnforced(t *testing.T) {
	store := &stubStore{}
	w, _ := NewWizard(store, "kiosk-1", "shelf-29x90")

	if err := w.Enter(Measurement{HorizontalMm: 50, VerticalMm: 20}); err == nil {
		t.Fatal("entering measurements before generating must fail")
	}
	if _, err := w.Save(context.Background()); err == nil {
		t.Fatal("saving before measuring must fail")
	}

	if err := w.MarkGenerated(); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if err := w.MarkGenerated(); err == nil {
		t.Fatal("marking generated twice must fail")
	}
}

func TestWizardReentryCorrectsMeasurement(t *testing.T) {
	store := &stubStore{}
	w, _ := NewWizard(store, "kiosk-1", "shelf-29x90")
	_ = w.MarkGenerated()

	if err := w.Enter(Measurement{HorizontalMm: 60, VerticalMm: 20}); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if err := w.Enter(Measurement{HorizontalMm: 50.5, VerticalMm: 20}); err != nil {
		t.Fatalf("corrected entry: %v", err)
	}
	pending, _ := w.Pending()
	if pending.ScaleX != 1.01 {
		t.Fatalf("pending ScaleX = %v, want the corrected 1.01", pending.ScaleX)
	}
}

func TestWizardAbandonWritesNothing(t *testing.T) {
	store := &stubStore{}
	w, _ := NewWizard(store, "kiosk-1", "shelf-29x90")
	_ = w.MarkGenerated()
	_ = w.Enter(Measurement{HorizontalMm: 50.5, VerticalMm: 20})

	w.Abandon()
	if w.Step() != StepAbandoned {
		t.Fatalf("wizard at step %s after abandon", w.Step())
	}
	if _, ok := w.Pending(); ok {
		t.Fatal("abandoned wizard still holds a pending override")
	}
	if len(store.puts) != 0 {
		t.Fatal("abandoned wizard wrote the store")
	}
	if _, err := w.Save(context.Background()); err == nil {
		t.Fatal("abandoned wizard must refuse to save")
	}
}

func TestWizardSaveRetriesAfterStoreError(t *testing.T) {
	store := &stubStore{putErr: errors.New("disk full")}
	w, _ := NewWizard(store, "kiosk-1", "shelf-29x90")
	_ = w.MarkGenerated()
	_ = w.Enter(Measurement{HorizontalMm: 50.5, VerticalMm: 20})

	if _, err := w.Save(context.Background()); err == nil {
		t.Fatal("save must surface the store error")
	}
	if w.Step() != StepSave {
		t.Fatalf("failed save moved wizard to %s, want to stay at save", w.Step())
	}

	store.putErr = nil
	if _, err := w.Save(context.Background()); err != nil {
		t.Fatalf("retry after store recovery failed: %v", err)
	}
	if len(store.puts) != 1 {
		t.Fatalf("store received %d writes, want 1", len(store.puts))
	}
}

func TestNewWizardValidatesInputs(t *testing.T) {
	if _, err := NewWizard(nil, "kiosk-1", "p"); err == nil {
		t.Fatal("nil store accepted")
	}
	if _, err := NewWizard(&stubStore{}, "", "p"); err == nil {
		t.Fatal("empty station accepted")
	}
	if _, err := NewWizard(&stubStore{}, "kiosk-1", ""); err == nil {
		t.Fatal("empty profile accepted")
	}
}
