package command

import "testing"

func TestEffectiveCeiling(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero means unlimited", 0, 100},
		{"negative treated as unlimited", -5, 100},
		{"limit below maximum", 50, 50},
		{"limit at maximum", 100, 100},
		{"limit above maximum is capped", 150, 100},
		{"limit of one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clamp := Clamp{Limit: tt.limit}
			if got := clamp.EffectiveCeiling(); got != tt.want {
				t.Errorf("EffectiveCeiling() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClampReducesShockAboveLimit(t *testing.T) {
	for limit := 1; limit <= 100; limit++ {
		clamp := Clamp{Limit: limit}
		for _, requested := range []int{1, limit, limit + 1, 100} {
			if requested > 100 {
				continue
			}
			applied, adjusted := clamp.Apply(ToolShock, requested)
			if requested > limit {
				if applied != limit || !adjusted {
					t.Fatalf("limit=%d requested=%d: got (%d,%v), want (%d,true)",
						limit, requested, applied, adjusted, limit)
				}
			} else {
				if applied != requested || adjusted {
					t.Fatalf("limit=%d requested=%d: got (%d,%v), want (%d,false)",
						limit, requested, applied, adjusted, requested)
				}
			}
		}
	}
}

func TestClampUnlimitedPassesThrough(t *testing.T) {
	clamp := Clamp{Limit: 0}
	for _, requested := range []int{1, 50, 100} {
		applied, adjusted := clamp.Apply(ToolShock, requested)
		if applied != requested || adjusted {
			t.Errorf("Apply(SHOCK, %d) with no limit = (%d,%v), want (%d,false)",
				requested, applied, adjusted, requested)
		}
	}
}

func TestClampNeverTouchesVibrateAndBeep(t *testing.T) {
	for limit := 0; limit <= 100; limit++ {
		clamp := Clamp{Limit: limit}
		for _, tool := range []Tool{ToolVibrate, ToolBeep} {
			applied, adjusted := clamp.Apply(tool, 90)
			if applied != 90 || adjusted {
				t.Fatalf("Apply(%s, 90) with limit %d = (%d,%v), want (90,false)",
					tool, limit, applied, adjusted)
			}
		}
	}
}
