package diag

import "fmt"

// Category classifies a diagnostic.
type Category uint8

const (
	CategoryWarning Category = iota
	CategoryError
	CategorySuggestion
	CategoryMessage
)

// String returns the lower-case name used in formatted output.
func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	}
	return "unknown"
}

// ParseCategory converts a fixture spelling into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "warning":
		return CategoryWarning, nil
	case "error":
		return CategoryError, nil
	case "suggestion":
		return CategorySuggestion, nil
	case "message":
		return CategoryMessage, nil
	default:
		return CategoryError, fmt.Errorf("invalid category: %q (expected: warning|error|suggestion|message)", s)
	}
}
