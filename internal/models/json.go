package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a jsonb column for free-form transaction metadata.
type JSON map[string]interface{}

// NewJSON wraps a map as a JSON column value.
func NewJSON(m map[string]interface{}) JSON {
	return JSON(m)
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("unsupported jsonb source type")
	}
	return json.Unmarshal(bytes, j)
}
