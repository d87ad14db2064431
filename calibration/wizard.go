package calibration

import (
	"context"
	"fmt"
	"time"

	"github.com/spoolworks/labelpress/template"
)

// Step is the wizard's position in the calibration flow.
type Step int

const (
	StepGenerate Step = iota
	StepMeasure
	StepSave
	StepDone
	StepAbandoned
)

func (s Step) String() string {
	switch s {
	case StepGenerate:
		return "generate"
	case StepMeasure:
		return "measure"
	case StepSave:
		return "save"
	case StepDone:
		return "done"
	case StepAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Wizard walks one operator through calibrating one (station, profile)
// pair: print the reference sheet, measure it, save the computed override.
// Nothing touches the store before Save, so abandoning at any step leaves
// no partial state behind.
type Wizard struct {
	store     Store
	stationID string
	profileID string

	// Expected is the ruler geometry of the sheet actually printed.
	// Callers that build a sheet for a small stock overwrite the defaults
	// with the shortened lengths before entering measurements.
	Expected Expected

	step       Step
	pending    Override
	hasPending bool
}

// NewWizard starts a calibration flow at the generate step.
func NewWizard(store Store, stationID, profileID string) (*Wizard, error) {
	if store == nil {
		return nil, fmt.Errorf("calibration: wizard requires a store")
	}
	if stationID == "" {
		return nil, template.NewFieldError("station_id", stationID, "must not be empty")
	}
	if profileID == "" {
		return nil, template.NewFieldError("profile_id", profileID, "must not be empty")
	}
	return &Wizard{
		store:     store,
		stationID: stationID,
		profileID: profileID,
		Expected:  DefaultExpected(),
		step:      StepGenerate,
	}, nil
}

// Step reports the wizard's current position.
func (w *Wizard) Step() Step { return w.step }

// StationID identifies the station being calibrated.
func (w *Wizard) StationID() string { return w.stationID }

// ProfileID identifies the stock being calibrated.
func (w *Wizard) ProfileID() string { return w.profileID }

// MarkGenerated records that the reference sheet went to the printer and
// advances to the measure step.
func (w *Wizard) MarkGenerated() error {
	if w.step != StepGenerate {
		return fmt.Errorf("calibration: cannot mark generated at step %s", w.step)
	}
	w.step = StepMeasure
	return nil
}

// Enter validates the operator's measurements and computes the pending
// override. Re-entering at the save step replaces the pending override, so
// a mistyped number can be corrected without restarting.
func (w *Wizard) Enter(m Measurement) error {
	if w.step != StepMeasure && w.step != StepSave {
		return fmt.Errorf("calibration: cannot enter measurements at step %s", w.step)
	}
	o, err := Compute(w.stationID, w.profileID, w.Expected, m)
	if err != nil {
		return err
	}
	w.pending = o
	w.hasPending = true
	w.step = StepSave
	return nil
}

// Pending returns the computed override awaiting save.
func (w *Wizard) Pending() (Override, bool) {
	return w.pending, w.hasPending
}

// Save persists the pending override and closes the wizard. A store failure
// leaves the wizard at the save step so the operator can retry.
func (w *Wizard) Save(ctx context.Context) (Override, error) {
	if w.step != StepSave || !w.hasPending {
		return Override{}, fmt.Errorf("calibration: nothing to save at step %s", w.step)
	}
	o := w.pending
	o.UpdatedAt = time.Now().UTC()
	if err := w.store.Put(ctx, o); err != nil {
		return Override{}, fmt.Errorf("calibration: save override: %w", err)
	}
	w.pending = o
	w.step = StepDone
	return o, nil
}

// Abandon closes the wizard without writing anything. Safe at every step;
// abandoning a finished wizard keeps it done.
func (w *Wizard) Abandon() {
	if w.step == StepDone {
		return
	}
	w.step = StepAbandoned
	w.hasPending = false
}
