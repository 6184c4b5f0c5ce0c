// Package patterns provides the embedded default PII recognizer definitions.
// The YAML format mirrors a Presidio-style recognizer registry with AegisAI
// extensions (deny_list for the name fallback, not_after boundary guards).
package patterns

import _ "embed"

//go:embed pii_default.yaml
var piiDefaultYAML []byte

// PIIDefaultYAML returns the embedded default PII recognizer definitions.
func PIIDefaultYAML() []byte { return piiDefaultYAML }
