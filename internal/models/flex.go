package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The browser client was loose about scalar types: "skills" may be a JSON
// array or a comma-separated string, "experience" a number or a numeric
// string. These wrappers normalize on decode and always encode the canonical
// form.

// FlexStrings decodes from either a JSON array of strings or a single
// comma-separated string.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = trimNonEmpty(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = trimNonEmpty(strings.Split(s, ","))
	return nil
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FlexInt decodes from a JSON number or a numeric string; anything else
// becomes zero, matching the original parseInt fallback.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}
