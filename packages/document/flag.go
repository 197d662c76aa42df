package document

import (
	"encoding/json"
	"fmt"
)

// Flag is the document flag of an example: off, on, or a set of tags.
type Flag struct {
	on   bool
	tags []string
}

func FlagOn() Flag {
	return Flag{on: true}
}

func FlagOff() Flag {
	return Flag{}
}

// FlagTags returns a flag that is on and carries tags. No tags means off.
func FlagTags(tags ...string) Flag {
	if len(tags) == 0 {
		return FlagOff()
	}
	return Flag{on: true, tags: append([]string(nil), tags...)}
}

// IsSet reports whether the flag is truthy.
func (f Flag) IsSet() bool {
	return f.on
}

func (f Flag) Tags() []string {
	return append([]string(nil), f.tags...)
}

func (f Flag) value() any {
	if len(f.tags) > 0 {
		return f.tags
	}
	return f.on
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value())
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = FlagOff()
	case bool:
		*f = Flag{on: v}
	case string:
		*f = FlagTags(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("document flag: tag %v is not a string", item)
			}
			tags = append(tags, s)
		}
		*f = FlagTags(tags...)
	default:
		return fmt.Errorf("document flag: unsupported value %s", string(data))
	}
	return nil
}

func (f Flag) MarshalYAML() (any, error) {
	return f.value(), nil
}
