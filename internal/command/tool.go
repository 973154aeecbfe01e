package command

import "fmt"

// Tool identifies one of the four supported OpenShock commands.
type Tool string

const (
	ToolShock   Tool = "SHOCK"
	ToolVibrate Tool = "VIBRATE"
	ToolBeep    Tool = "BEEP"
	ToolStop    Tool = "STOP"
)

// Control type integers from the OpenShock v2 API.
const (
	TypeStop    = 0
	TypeShock   = 1
	TypeVibrate = 2
	TypeBeep    = 3
)

// Parameter bounds enforced during translation.
const (
	IntensityMin = 1
	IntensityMax = 100

	DurationMinMs = 300
	DurationMaxMs = 30000

	// STOP commands always go out with these fixed values; nothing the
	// caller supplies is used.
	StopIntensity  = 0
	StopDurationMs = 300

	// BEEP intensity when the field is entirely absent from the target.
	BeepDefaultIntensity = 50
)

// Tools lists the supported tools in catalog order.
func Tools() []Tool {
	return []Tool{ToolShock, ToolVibrate, ToolBeep, ToolStop}
}

// ToolNames lists the supported tool names in catalog order.
func ToolNames() []string {
	tools := Tools()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t)
	}
	return names
}

// ParseTool maps a tool name from a tools/call request onto the closed Tool
// set. Unknown names fail validation.
func ParseTool(name string) (Tool, error) {
	switch Tool(name) {
	case ToolShock, ToolVibrate, ToolBeep, ToolStop:
		return Tool(name), nil
	default:
		return "", &ValidationError{Message: fmt.Sprintf("Unknown tool: %s", name)}
	}
}

// ControlType returns the OpenShock control type integer for the tool.
func (t Tool) ControlType() int {
	switch t {
	case ToolShock:
		return TypeShock
	case ToolVibrate:
		return TypeVibrate
	case ToolBeep:
		return TypeBeep
	default:
		return TypeStop
	}
}

// ValidationError reports a rejected tools/call argument. The message is
// surfaced verbatim to the MCP client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
