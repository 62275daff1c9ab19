package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// Block is one layout block in a page or home section. Only the fields
// matching the declared type carry data; the rest stay empty.
type Block struct {
	Type enums.BlockType `json:"type"`

	// cover
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`

	// richText: a serialized rich-text document
	Content json.RawMessage `json:"content,omitempty"`

	// image
	MediaURL string `json:"mediaUrl,omitempty"`
	AltText  string `json:"altText,omitempty"`
}

// Blocks stores an ordered block list as a JSONB column.
type Blocks []Block

// Value implements driver.Valuer.
func (b Blocks) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner.
func (b *Blocks) Scan(value any) error {
	if value == nil {
		*b = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported blocks column type %T", value)
	}
}
