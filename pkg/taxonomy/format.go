package taxonomy

import "strings"

var featureIDReplacer = strings.NewReplacer("(", "*", ")", "*", "[", "*", "]", "*", ":", "*")

// FeatureID rewrites a canonical name into an identifier QIIME2 accepts:
// brackets and colons become separators and leading or trailing
// separators are dropped. Spaces are preserved.
func FeatureID(name string) string {
	id := strings.ReplaceAll(name, " ", "_")
	id = featureIDReplacer.Replace(id)
	id = strings.ReplaceAll(id, "*_", "_")
	id = strings.ReplaceAll(id, "*", "_")
	id = strings.Trim(id, "_")
	return strings.ReplaceAll(id, "_", " ")
}
