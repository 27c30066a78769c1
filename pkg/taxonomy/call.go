package taxonomy

import "strings"

// Call is the measurement outcome for one sample/organism pair.
// Besides the three canonical states a Call may hold a raw value that
// did not normalize; the combine operator rejects those.
type Call string

// Canonical call states.
const (
	Missing   Call = ""
	Secondary Call = "Secondary"
	Detected  Call = "DETECTED"
)

// missingTokens are raw cell values that mean "no call".
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// ParseCall classifies a raw cell value into a Call.
func ParseCall(raw string) Call {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case missingTokens[lower]:
		return Missing
	case lower == "detected":
		return Detected
	case lower == "secondary":
		return Secondary
	default:
		return Call(trimmed)
	}
}

// IsCanonical reports whether c is one of Missing, Secondary or Detected.
func (c Call) IsCanonical() bool {
	return c == Missing || c == Secondary || c == Detected
}

// String renders Missing as an empty cell.
func (c Call) String() string {
	return string(c)
}
