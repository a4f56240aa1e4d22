package language

// Remap rewrites caller language codes into the dialect one upstream expects.
// Only exact keys are rewritten; anything else passes through untouched.
type Remap map[string]string

// NeuralMTRemap is the target-language table for the neural MT provider, which
// rejects a bare "en" target and wants a regional variant.
var NeuralMTRemap = Remap{
	"en": "en-US",
	"id": "id",
	"es": "es",
	"fr": "fr",
	"de": "de",
	"ja": "ja",
}

// Apply returns the mapped code for raw, or raw itself when the table has no entry.
func (m Remap) Apply(raw string) string {
	if len(m) == 0 {
		return raw
	}
	if mapped, ok := m[raw]; ok {
		return mapped
	}
	return raw
}
