// Package catalog describes the four supported tools and their input schemas
// for MCP tools/list responses. The SHOCK schema is not static data: its
// intensity maximum and description embed the effective safety ceiling, so
// descriptors are rebuilt on every call from the injected clamp.
package catalog

import (
	"fmt"

	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
)

// Descriptor is one tool entry of a tools/list response.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Catalog produces tool descriptors parameterized by the safety clamp.
type Catalog struct {
	clamp command.Clamp
}

// New creates a catalog for the given safety clamp.
func New(clamp command.Clamp) *Catalog {
	return &Catalog{clamp: clamp}
}

// List returns the tool descriptors in fixed order: SHOCK, VIBRATE, BEEP, STOP.
func (c *Catalog) List() []Descriptor {
	ceiling := c.clamp.EffectiveCeiling()

	return []Descriptor{
		{
			Name: string(command.ToolShock),
			Description: fmt.Sprintf(
				"Send shock command to OpenShock devices (maximum intensity %d)", ceiling),
			InputSchema: shockersSchema(map[string]any{
				"id": idProperty(),
				"intensity": map[string]any{
					"type":        "integer",
					"minimum":     command.IntensityMin,
					"maximum":     ceiling,
					"description": fmt.Sprintf("Shock intensity (%d-%d)", command.IntensityMin, ceiling),
				},
				"duration": durationProperty(),
			}, []string{"id", "intensity", "duration"}),
		},
		{
			Name:        string(command.ToolVibrate),
			Description: "Send vibrate command to OpenShock devices",
			InputSchema: shockersSchema(map[string]any{
				"id": idProperty(),
				"intensity": map[string]any{
					"type":        "integer",
					"minimum":     command.IntensityMin,
					"maximum":     command.IntensityMax,
					"description": fmt.Sprintf("Vibration intensity (%d-%d)", command.IntensityMin, command.IntensityMax),
				},
				"duration": durationProperty(),
			}, []string{"id", "intensity", "duration"}),
		},
		{
			Name:        string(command.ToolBeep),
			Description: "Send beep/sound command to OpenShock devices",
			InputSchema: shockersSchema(map[string]any{
				"id": idProperty(),
				"intensity": map[string]any{
					"type":        "integer",
					"minimum":     command.IntensityMin,
					"maximum":     command.IntensityMax,
					"default":     command.BeepDefaultIntensity,
					"description": fmt.Sprintf("Beep intensity (%d-%d, defaults to %d)", command.IntensityMin, command.IntensityMax, command.BeepDefaultIntensity),
				},
				"duration": durationProperty(),
			}, []string{"id", "duration"}),
		},
		{
			Name:        string(command.ToolStop),
			Description: "Stop all commands on OpenShock devices",
			InputSchema: shockersSchema(map[string]any{
				"id": idProperty(),
			}, []string{"id"}),
		},
	}
}

func shockersSchema(itemProperties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"shockers": map[string]any{
				"type":        "array",
				"description": "List of shockers to control",
				"items": map[string]any{
					"type":       "object",
					"properties": itemProperties,
					"required":   required,
				},
			},
		},
		"required": []string{"shockers"},
	}
}

func idProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Shocker ID",
	}
}

func durationProperty() map[string]any {
	return map[string]any{
		"type":        "integer",
		"minimum":     command.DurationMinMs,
		"maximum":     command.DurationMaxMs,
		"description": fmt.Sprintf("Duration in milliseconds (%d-%d)", command.DurationMinMs, command.DurationMaxMs),
	}
}
