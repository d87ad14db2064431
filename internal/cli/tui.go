package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spoolworks/labelpress/calibration"
)

// Measurement form fields, in focus order.
const (
	fieldHorizontal = iota
	fieldVertical
	fieldOffsetX
	fieldOffsetY
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Horizontal ruler (mm)",
	"Vertical ruler (mm)",
	"Corner offset X (mm)",
	"Corner offset Y (mm)",
}

// wizardModel is the bubbletea model for the interactive calibration flow.
// The calibration.Wizard owns the step rules and all persistence; the model
// only collects keystrokes and shows state, so abandoning at any point
// leaves the store untouched.
type wizardModel struct {
	ctx context.Context
	wiz *calibration.Wizard

	fields  [fieldCount]string
	focus   int
	editing bool

	err      error
	saved    bool
	override calibration.Override
}

func newWizardModel(ctx context.Context, wiz *calibration.Wizard) wizardModel {
	return wizardModel{ctx: ctx, wiz: wiz}
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.wiz.Abandon()
		return m, tea.Quit
	}

	switch {
	case m.wiz.Step() == calibration.StepGenerate:
		return m.updateGenerate(keyMsg)
	case m.wiz.Step() == calibration.StepMeasure || m.editing:
		return m.updateMeasure(keyMsg)
	case m.wiz.Step() == calibration.StepSave:
		return m.updateReview(keyMsg)
	}
	return m, nil
}

func (m wizardModel) updateGenerate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.err = m.wiz.MarkGenerated()
	}
	return m, nil
}

func (m wizardModel) updateMeasure(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
	case "enter":
		if m.focus < fieldCount-1 {
			m.focus++
			return m, nil
		}
		return m.submitMeasurements()
	case "backspace":
		if f := m.fields[m.focus]; f != "" {
			m.fields[m.focus] = f[:len(f)-1]
		}
	default:
		if len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
			m.fields[m.focus] += s
		}
	}
	return m, nil
}

func (m wizardModel) submitMeasurements() (tea.Model, tea.Cmd) {
	meas, err := m.measurement()
	if err != nil {
		m.err = err
		return m, nil
	}
	if err := m.wiz.Enter(meas); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.editing = false
	return m, nil
}

func (m wizardModel) measurement() (calibration.Measurement, error) {
	parse := func(field int, required bool) (float64, error) {
		raw := strings.TrimSpace(m.fields[field])
		if raw == "" {
			if required {
				return 0, fmt.Errorf("%s is required", fieldLabels[field])
			}
			return 0, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", fieldLabels[field], raw)
		}
		return v, nil
	}

	var meas calibration.Measurement
	var err error
	if meas.HorizontalMm, err = parse(fieldHorizontal, true); err != nil {
		return calibration.Measurement{}, err
	}
	if meas.VerticalMm, err = parse(fieldVertical, true); err != nil {
		return calibration.Measurement{}, err
	}
	if meas.CornerOffsetXMm, err = parse(fieldOffsetX, false); err != nil {
		return calibration.Measurement{}, err
	}
	if meas.CornerOffsetYMm, err = parse(fieldOffsetY, false); err != nil {
		return calibration.Measurement{}, err
	}
	return meas, nil
}

func (m wizardModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		o, err := m.wiz.Save(m.ctx)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.saved = true
		m.override = o
		return m, tea.Quit
	case "e":
		m.editing = true
		m.err = nil
	}
	return m, nil
}

func (m wizardModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Calibrate %s / %s", m.wiz.StationID(), m.wiz.ProfileID())))
	b.WriteString("\n\n")

	switch {
	case m.wiz.Step() == calibration.StepGenerate:
		b.WriteString(m.viewGenerate())
	case m.wiz.Step() == calibration.StepMeasure || m.editing:
		b.WriteString(m.viewMeasure())
	case m.wiz.Step() == calibration.StepSave:
		b.WriteString(m.viewReview())
	default:
		return ""
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleBlocking.Render(iconBlocking + " " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m wizardModel) viewGenerate() string {
	var b strings.Builder
	b.WriteString("The reference sheet prints two rulers and four corner targets.\n")
	b.WriteString(fmt.Sprintf("Nominal lengths: horizontal %s, vertical %s.\n\n",
		formatMm(m.wiz.Expected.HorizontalMm), formatMm(m.wiz.Expected.VerticalMm)))
	b.WriteString(styleDim.Render("Run calibrate with --sheet reference.pdf to write the printable PDF."))
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("⏎ the sheet is printed   esc abandon"))
	b.WriteString("\n")
	return b.String()
}

func (m wizardModel) viewMeasure() string {
	hints := [fieldCount]string{
		fmt.Sprintf("nominal %g", m.wiz.Expected.HorizontalMm),
		fmt.Sprintf("nominal %g", m.wiz.Expected.VerticalMm),
		"0 if the corner targets line up",
		"0 if the corner targets line up",
	}

	var b strings.Builder
	b.WriteString("Enter what the caliper reads off the printed sheet.\n\n")
	for i := 0; i < fieldCount; i++ {
		cursor := "  "
		label := styleLabel.Render(fmt.Sprintf("%-22s", fieldLabels[i]))
		value := m.fields[i]
		if i == m.focus {
			cursor = iconPrompt + " "
			value = styleValue.Render(value + "▏")
		} else if value != "" {
			value = styleNumber.Render(value)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, label, value, styleDim.Render(hints[i])))
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render("tab/↑/↓ move   ⏎ next field, submit on the last   esc abandon"))
	b.WriteString("\n")
	return b.String()
}

func (m wizardModel) viewReview() string {
	pending, ok := m.wiz.Pending()
	if !ok {
		return styleDim.Render("nothing to review") + "\n"
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label)), styleNumber.Render(value))
	}

	var b strings.Builder
	b.WriteString("Pending correction, clamped to printer tolerance:\n\n")
	b.WriteString(row("scale x", fmt.Sprintf("%.4f", pending.ScaleX)))
	b.WriteString(row("scale y", fmt.Sprintf("%.4f", pending.ScaleY)))
	b.WriteString(row("offset x", fmt.Sprintf("%+.2f mm", pending.OffsetXMm)))
	b.WriteString(row("offset y", fmt.Sprintf("%+.2f mm", pending.OffsetYMm)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("⏎ save   e edit measurements   esc abandon"))
	b.WriteString("\n")
	return b.String()
}
