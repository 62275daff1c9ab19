package enums

import "fmt"

// BlockType identifies the layout block kinds a page can render.
type BlockType string

const (
	BlockTypeCover    BlockType = "cover"
	BlockTypeRichText BlockType = "richText"
	BlockTypeImage    BlockType = "image"
)

var validBlockTypes = []BlockType{
	BlockTypeCover,
	BlockTypeRichText,
	BlockTypeImage,
}

// String implements fmt.Stringer.
func (b BlockType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BlockType.
func (b BlockType) IsValid() bool {
	for _, candidate := range validBlockTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBlockType converts raw input into a BlockType.
func ParseBlockType(value string) (BlockType, error) {
	for _, candidate := range validBlockTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid block type %q", value)
}
