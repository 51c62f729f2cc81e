package recordstore

import (
	"fmt"
	"strings"
)

// Quote renders s as a formula string literal
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// FieldEquals builds a formula matching records whose field equals value
func FieldEquals(field, value string) string {
	return fmt.Sprintf("{%s} = %s", field, Quote(value))
}

// ContainsFold builds a case-insensitive substring match on field
func ContainsFold(field, needle string) string {
	return fmt.Sprintf("SEARCH(LOWER(%s), LOWER({%s}))", Quote(needle), field)
}

// And joins non-empty formulas with AND()
func And(formulas ...string) string {
	parts := make([]string, 0, len(formulas))
	for _, f := range formulas {
		if f != "" {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "AND(" + strings.Join(parts, ", ") + ")"
	}
}
