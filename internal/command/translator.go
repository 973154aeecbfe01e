package command

import "fmt"

// Control is one record of the downstream OpenShock control batch.
type Control struct {
	ID        string `json:"id"`
	Type      int    `json:"type"`
	Intensity int    `json:"intensity"`
	Duration  int    `json:"duration"`
}

// Adjustment records a SHOCK intensity reduced by the safety clamp. It is
// reported back to the client so the reduction is never silent.
type Adjustment struct {
	TargetID  string
	Requested int
	Applied   int
}

// Translator turns one validated tool invocation into the downstream control
// batch, applying the safety clamp to SHOCK intensities.
type Translator struct {
	clamp Clamp
}

// NewTranslator creates a translator with the given safety clamp.
func NewTranslator(clamp Clamp) *Translator {
	return &Translator{clamp: clamp}
}

// Clamp returns the translator's safety clamp.
func (tr *Translator) Clamp() Clamp {
	return tr.clamp
}

// Translate validates the targets in order and produces one Control per
// target, preserving input order. The first invalid target aborts the whole
// call with a *ValidationError and no controls are returned.
func (tr *Translator) Translate(tool Tool, targets []Target) ([]Control, []Adjustment, error) {
	controls := make([]Control, 0, len(targets))
	var adjustments []Adjustment

	for _, target := range targets {
		ctrl, adj, err := tr.translateTarget(tool, target)
		if err != nil {
			return nil, nil, err
		}
		controls = append(controls, ctrl)
		if adj != nil {
			adjustments = append(adjustments, *adj)
		}
	}

	return controls, adjustments, nil
}

func (tr *Translator) translateTarget(tool Tool, target Target) (Control, *Adjustment, error) {
	if target.ID == "" {
		return Control{}, nil, &ValidationError{Message: "Missing shocker ID"}
	}

	ctrl := Control{ID: target.ID, Type: tool.ControlType()}

	if tool == ToolStop {
		// Fixed constants; any supplied intensity/duration is ignored.
		ctrl.Intensity = StopIntensity
		ctrl.Duration = StopDurationMs
		return ctrl, nil, nil
	}

	// Normalize before validation: BEEP gets a default intensity when the
	// field is entirely absent. Present-but-null still fails below.
	if tool == ToolBeep && !target.Intensity.Present {
		target.Intensity.Set(BeepDefaultIntensity)
	}

	if !target.Intensity.Valid || !target.Duration.Valid {
		return Control{}, nil, &ValidationError{
			Message: fmt.Sprintf("%s requires intensity and duration", tool),
		}
	}

	intensity := target.Intensity.Value
	duration := target.Duration.Value

	if intensity < IntensityMin || intensity > IntensityMax {
		return Control{}, nil, &ValidationError{
			Message: fmt.Sprintf("intensity must be between %d and %d", IntensityMin, IntensityMax),
		}
	}
	if duration < DurationMinMs || duration > DurationMaxMs {
		return Control{}, nil, &ValidationError{
			Message: fmt.Sprintf("duration must be between %d and %d milliseconds", DurationMinMs, DurationMaxMs),
		}
	}

	applied, adjusted := tr.clamp.Apply(tool, intensity)
	ctrl.Intensity = applied
	ctrl.Duration = duration

	if adjusted {
		return ctrl, &Adjustment{TargetID: target.ID, Requested: intensity, Applied: applied}, nil
	}
	return ctrl, nil, nil
}
