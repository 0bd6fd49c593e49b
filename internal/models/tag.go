package models

import (
	"strings"
)

// Tag represents a task tag. Tags are shared between tasks.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"column:tag_name;not null" json:"name"`
	Color string `gorm:"column:tag_color;not null" json:"color"`
}

func (Tag) TableName() string { return "tags" }

// namedColors are the basic HTML color keywords accepted besides hex values.
var namedColors = map[string]bool{
	"black": true, "silver": true, "gray": true, "white": true,
	"maroon": true, "red": true, "purple": true, "fuchsia": true,
	"green": true, "lime": true, "olive": true, "yellow": true,
	"navy": true, "blue": true, "teal": true, "aqua": true,
}

// NewTag validates and builds an unsaved tag. The color is kept as given,
// minus surrounding whitespace.
func NewTag(name, color string) (*Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newError(EntityTag, KindInvalidName, "tag name cannot be empty")
	}
	if err := checkColor(color); err != nil {
		return nil, err
	}
	return &Tag{Name: name, Color: strings.TrimSpace(color)}, nil
}

// HasID reports whether the store has assigned the tag an identity.
func (t Tag) HasID() bool {
	return t.ID != 0
}

// Validate re-checks a tag value built outside NewTag.
func (t Tag) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return newError(EntityTag, KindInvalidName, "tag name cannot be empty")
	}
	return checkColor(t.Color)
}

func checkColor(color string) error {
	if strings.TrimSpace(color) == "" {
		return newError(EntityTag, KindInvalidColor, "tag color cannot be empty")
	}
	if !ValidColor(color) {
		return newError(EntityTag, KindInvalidColor, "tag color '%s' is invalid", color)
	}
	return nil
}

// ValidColor accepts #rgb, #rrggbb or a basic color name, case-insensitively.
func ValidColor(color string) bool {
	trimmed := strings.TrimSpace(color)
	if hex, ok := strings.CutPrefix(trimmed, "#"); ok {
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, c := range hex {
			if !isHexDigit(c) {
				return false
			}
		}
		return true
	}
	return namedColors[strings.ToLower(trimmed)]
}

func isHexDigit(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
