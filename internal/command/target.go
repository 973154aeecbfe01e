package command

import (
	"encoding/json"
	"fmt"
)

// OptionalInt distinguishes the three states an integer field of a target can
// be in: absent from the JSON object, present but null (or non-integer), and
// present with a usable value. BEEP's intensity default applies only to the
// first state.
type OptionalInt struct {
	Present bool
	Valid   bool
	Value   int
}

// Set marks the field present with a value.
func (o *OptionalInt) Set(v int) {
	o.Present = true
	o.Valid = true
	o.Value = v
}

// Target is one addressed shocker within a tools/call "shockers" array.
type Target struct {
	ID        string
	Intensity OptionalInt
	Duration  OptionalInt
}

// UnmarshalJSON decodes a target from its raw JSON object, keeping track of
// which fields were present so absent and null are not conflated.
func (t *Target) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("shocker entry must be an object: %w", err)
	}

	if raw, ok := fields["id"]; ok {
		// A null or non-string id is treated as missing; the translator
		// rejects empty IDs anyway.
		_ = json.Unmarshal(raw, &t.ID)
	}
	t.Intensity = decodeOptionalInt(fields, "intensity")
	t.Duration = decodeOptionalInt(fields, "duration")
	return nil
}

func decodeOptionalInt(fields map[string]json.RawMessage, key string) OptionalInt {
	raw, ok := fields[key]
	if !ok {
		return OptionalInt{}
	}
	opt := OptionalInt{Present: true}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		// Present but null or not an integer.
		return opt
	}
	opt.Valid = true
	opt.Value = v
	return opt
}
