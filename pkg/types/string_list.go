package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList persists a slice of strings as a JSON text column. Product image
// URLs use it so the same model works on Postgres and the sqlite test driver.
type StringList []string

// Value marshals the slice into JSON for the database.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON column back into the slice.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}

	var result StringList
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}
