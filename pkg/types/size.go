package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is either a numeric shoe size (42, 42.5) or a label such as "M" or
// "One Size". It is comparable, so it can be part of a map key.
type Size struct {
	value   string
	numeric bool
}

func NumericSize(v float64) Size {
	return Size{value: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
}

func LabelSize(label string) Size {
	return Size{value: strings.TrimSpace(label)}
}

// ParseSize reads user input: anything that parses as a number is numeric.
func ParseSize(raw string) (Size, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Size{}, errors.New("size is required")
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumericSize(f), nil
	}
	return LabelSize(trimmed), nil
}

func (s Size) IsZero() bool {
	return s.value == ""
}

func (s Size) IsNumeric() bool {
	return s.numeric
}

func (s Size) String() string {
	return s.value
}

func (s Size) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.value), nil
	}
	return json.Marshal(s.value)
}

func (s *Size) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = Size{}
		return nil
	}
	if trimmed[0] == '"' {
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return err
		}
		*s = LabelSize(label)
		return nil
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("invalid size %s", trimmed)
	}
	*s = NumericSize(f)
	return nil
}

// Sizes is stored as a JSON array column.
type Sizes []Size

// Contains reports whether want is one of the sizes.
func (s Sizes) Contains(want Size) bool {
	for _, candidate := range s {
		if candidate == want {
			return true
		}
	}
	return false
}

func (s Sizes) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]Size(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Sizes) Scan(src any) error {
	return scanJSON(src, s)
}
