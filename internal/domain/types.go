package domain

import (
	"database/sql/driver"
	"errors"

	"github.com/goccy/go-json"
)

// --- Shared Custom Types ---

// RawJSON is a helper for handling raw JSON bytes (like json.RawMessage).
// Used for article metadata where the structure is dynamic.
type RawJSON json.RawMessage

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	*j = append((*j)[0:0], bytes...)
	return nil
}

// MarshalJSON returns j as the JSON encoding of j.
// Required because 'type RawJSON json.RawMessage' strips the underlying MarshalJSON method.
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON sets *j to a copy of data.
func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("RawJSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}
