package command

// Clamp enforces the process-wide maximum SHOCK intensity. The limit is fixed
// at startup and never mutated, so the clamp is a pure value type.
//
// Only SHOCK is ceiling-limited. VIBRATE and BEEP intensities pass through
// untouched regardless of the configured limit, and STOP never carries a
// clamp decision because its intensity is forced to zero by definition.
type Clamp struct {
	// Limit is the configured maximum SHOCK intensity. Zero means unlimited.
	Limit int
}

// EffectiveCeiling returns the maximum intensity a SHOCK command may carry:
// 100 when the limit is unset, otherwise min(limit, 100).
func (c Clamp) EffectiveCeiling() int {
	if c.Limit <= 0 {
		return IntensityMax
	}
	if c.Limit > IntensityMax {
		return IntensityMax
	}
	return c.Limit
}

// Apply returns the intensity to send downstream and whether it was reduced.
func (c Clamp) Apply(tool Tool, requested int) (applied int, adjusted bool) {
	if tool != ToolShock {
		return requested, false
	}
	ceiling := c.EffectiveCeiling()
	if c.Limit > 0 && requested > ceiling {
		return ceiling, true
	}
	return requested, false
}
