package command

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// mustTargets decodes a shockers array literal for test input.
func mustTargets(t *testing.T, raw string) []Target {
	t.Helper()
	var targets []Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		t.Fatalf("failed to decode targets: %v", err)
	}
	return targets
}

func target(id string, intensity, duration int) Target {
	tgt := Target{ID: id}
	tgt.Intensity.Set(intensity)
	tgt.Duration.Set(duration)
	return tgt
}

func TestTranslateShockAppliesClamp(t *testing.T) {
	tr := NewTranslator(Clamp{Limit: 50})

	controls, adjustments, err := tr.Translate(ToolShock, []Target{target("x", 90, 1000)})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if len(controls) != 1 {
		t.Fatalf("got %d controls, want 1", len(controls))
	}
	want := Control{ID: "x", Type: TypeShock, Intensity: 50, Duration: 1000}
	if controls[0] != want {
		t.Errorf("control = %+v, want %+v", controls[0], want)
	}
	if len(adjustments) != 1 {
		t.Fatalf("got %d adjustments, want 1", len(adjustments))
	}
	adj := adjustments[0]
	if adj.TargetID != "x" || adj.Requested != 90 || adj.Applied != 50 {
		t.Errorf("adjustment = %+v, want {x 90 50}", adj)
	}
}

func TestTranslateVibrateIgnoresLimit(t *testing.T) {
	tr := NewTranslator(Clamp{Limit: 0})

	controls, adjustments, err := tr.Translate(ToolVibrate, []Target{target("y", 90, 1000)})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := Control{ID: "y", Type: TypeVibrate, Intensity: 90, Duration: 1000}
	if controls[0] != want {
		t.Errorf("control = %+v, want %+v", controls[0], want)
	}
	if len(adjustments) != 0 {
		t.Errorf("got %d adjustments, want 0", len(adjustments))
	}

	// Even a tight limit leaves VIBRATE untouched.
	tr = NewTranslator(Clamp{Limit: 10})
	controls, adjustments, err = tr.Translate(ToolVibrate, []Target{target("y", 90, 1000)})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if controls[0].Intensity != 90 || len(adjustments) != 0 {
		t.Errorf("VIBRATE was clamped: %+v adjustments=%d", controls[0], len(adjustments))
	}
}

func TestTranslateStopUsesFixedConstants(t *testing.T) {
	tr := NewTranslator(Clamp{Limit: 50})

	// Extra fields on a STOP target are ignored.
	targets := mustTargets(t, `[{"id":"z","intensity":95,"duration":9999}]`)
	controls, adjustments, err := tr.Translate(ToolStop, targets)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := Control{ID: "z", Type: TypeStop, Intensity: 0, Duration: 300}
	if controls[0] != want {
		t.Errorf("control = %+v, want %+v", controls[0], want)
	}
	if len(adjustments) != 0 {
		t.Errorf("STOP produced %d adjustments, want 0", len(adjustments))
	}
}

func TestTranslatePreservesTargetOrder(t *testing.T) {
	tr := NewTranslator(Clamp{})

	targets := []Target{
		target("a", 10, 500),
		target("b", 20, 600),
		target("c", 30, 700),
	}
	controls, _, err := tr.Translate(ToolVibrate, targets)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	for i, id := range []string{"a", "b", "c"} {
		if controls[i].ID != id {
			t.Errorf("controls[%d].ID = %s, want %s", i, controls[i].ID, id)
		}
	}
}

func TestTranslateAllOrNothing(t *testing.T) {
	tr := NewTranslator(Clamp{})

	targets := []Target{
		target("a", 10, 500),
		{ID: ""}, // invalid in second position
		target("c", 30, 700),
	}
	controls, adjustments, err := tr.Translate(ToolVibrate, targets)
	if err == nil {
		t.Fatal("Translate() error = nil, want validation error")
	}
	if controls != nil || adjustments != nil {
		t.Errorf("partial output on failure: controls=%v adjustments=%v", controls, adjustments)
	}
}

func TestTranslateValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		targets string
		wantMsg string
	}{
		{
			name:    "missing id",
			tool:    ToolShock,
			targets: `[{"intensity":50,"duration":1000}]`,
			wantMsg: "Missing shocker ID",
		},
		{
			name:    "empty id",
			tool:    ToolShock,
			targets: `[{"id":"","intensity":50,"duration":1000}]`,
			wantMsg: "Missing shocker ID",
		},
		{
			name:    "shock missing intensity",
			tool:    ToolShock,
			targets: `[{"id":"x","duration":1000}]`,
			wantMsg: "SHOCK requires intensity and duration",
		},
		{
			name:    "shock missing duration",
			tool:    ToolShock,
			targets: `[{"id":"x","intensity":50}]`,
			wantMsg: "SHOCK requires intensity and duration",
		},
		{
			name:    "vibrate null intensity",
			tool:    ToolVibrate,
			targets: `[{"id":"x","intensity":null,"duration":1000}]`,
			wantMsg: "VIBRATE requires intensity and duration",
		},
		{
			name:    "beep null intensity is not defaulted",
			tool:    ToolBeep,
			targets: `[{"id":"x","intensity":null,"duration":1000}]`,
			wantMsg: "BEEP requires intensity and duration",
		},
		{
			name:    "intensity above range",
			tool:    ToolShock,
			targets: `[{"id":"x","intensity":101,"duration":1000}]`,
			wantMsg: "intensity must be between 1 and 100",
		},
		{
			name:    "intensity below range",
			tool:    ToolShock,
			targets: `[{"id":"x","intensity":0,"duration":1000}]`,
			wantMsg: "intensity must be between 1 and 100",
		},
		{
			name:    "duration below range",
			tool:    ToolShock,
			targets: `[{"id":"x","intensity":50,"duration":299}]`,
			wantMsg: "duration must be between 300 and 30000",
		},
		{
			name:    "duration above range",
			tool:    ToolShock,
			targets: `[{"id":"x","intensity":50,"duration":30001}]`,
			wantMsg: "duration must be between 300 and 30000",
		},
	}

	tr := NewTranslator(Clamp{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tr.Translate(tt.tool, mustTargets(t, tt.targets))
			if err == nil {
				t.Fatal("Translate() error = nil, want validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTranslateBeepDefaultsAbsentIntensity(t *testing.T) {
	tr := NewTranslator(Clamp{Limit: 10})

	controls, adjustments, err := tr.Translate(ToolBeep, mustTargets(t, `[{"id":"b","duration":1000}]`))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := Control{ID: "b", Type: TypeBeep, Intensity: 50, Duration: 1000}
	if controls[0] != want {
		t.Errorf("control = %+v, want %+v", controls[0], want)
	}
	// The defaulted intensity is not a clamp decision.
	if len(adjustments) != 0 {
		t.Errorf("got %d adjustments, want 0", len(adjustments))
	}
}

func TestParseTool(t *testing.T) {
	for _, name := range []string{"SHOCK", "VIBRATE", "BEEP", "STOP"} {
		if _, err := ParseTool(name); err != nil {
			t.Errorf("ParseTool(%s) error = %v", name, err)
		}
	}

	_, err := ParseTool("LASER")
	if err == nil {
		t.Fatal("ParseTool(LASER) error = nil, want error")
	}
	if !strings.Contains(err.Error(), "Unknown tool: LASER") {
		t.Errorf("error %q does not contain %q", err.Error(), "Unknown tool: LASER")
	}
}

func TestControlTypeMapping(t *testing.T) {
	tests := []struct {
		tool Tool
		want int
	}{
		{ToolStop, 0},
		{ToolShock, 1},
		{ToolVibrate, 2},
		{ToolBeep, 3},
	}
	for _, tt := range tests {
		if got := tt.tool.ControlType(); got != tt.want {
			t.Errorf("%s.ControlType() = %d, want %d", tt.tool, got, tt.want)
		}
	}
}
