package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NavLink is a single header/footer navigation entry.
type NavLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// NavLinks stores an ordered link list as a JSONB column.
type NavLinks []NavLink

// Value implements driver.Valuer.
func (n NavLinks) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}
	return json.Marshal(n)
}

// Scan implements sql.Scanner.
func (n *NavLinks) Scan(value any) error {
	if value == nil {
		*n = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("unsupported nav links column type %T", value)
	}
}
