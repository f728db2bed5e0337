// Package rule defines the fixed accessibility rule catalogue: rule
// identity, severity, conformance level, and fix guidance. The
// catalogue is read-only at evaluation time; predicates live in the
// analyzer and are bound by rule ID.
package rule

// Severity represents the impact of a rule violation. Severities are
// ordered; Rank gives the ordinal for escalation logic.
type Severity string

// Severities, least to most severe.
const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySerious  Severity = "serious"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordinal position of the severity, minor lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 0
	case SeverityModerate:
		return 1
	case SeveritySerious:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// IsValid checks if the severity is a known value.
func (s Severity) IsValid() bool {
	return s.Rank() >= 0
}

// Level is a WCAG conformance level.
type Level string

// Conformance levels, A lowest.
const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// Rank returns the ordinal position of the level, A lowest.
func (l Level) Rank() int {
	switch l {
	case LevelA:
		return 0
	case LevelAA:
		return 1
	case LevelAAA:
		return 2
	default:
		return -1
	}
}

// Category groups rules by the kind of markup they inspect.
type Category string

// Rule categories.
const (
	CategoryStructural  Category = "structural"
	CategorySemantic    Category = "semantic"
	CategoryInteractive Category = "interactive"
	CategoryVisual      Category = "visual"
)

// Definition is an immutable rule definition. Definitions are created
// at process start and never mutated.
type Definition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Standard    string   `json:"standard"`
	Level       Level    `json:"level"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	FixGuidance string   `json:"fix_guidance,omitempty"`
	Reference   string   `json:"reference,omitempty"`

	// Advisory rules record violations as warnings instead of issues.
	Advisory bool `json:"advisory,omitempty"`
}
