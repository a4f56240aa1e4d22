package translation

import (
	"context"
	"sort"
	"strings"
)

// ProviderID names one upstream translation service. The value is the wire name
// clients send in the "provider" field.
type ProviderID string

const (
	// GenericMT is the general machine-translation API and the terminal fallback.
	GenericMT ProviderID = "google"
	// NeuralMT is the neural machine-translation API.
	NeuralMT ProviderID = "deepl"
	// GenerativeLM is the generative language model.
	GenerativeLM ProviderID = "gemini"
)

// ProviderAliases maps extra wire names onto a canonical provider.
// "openai" predates the generative backend switch and is kept for old clients.
var ProviderAliases = map[string]ProviderID{
	"openai": GenerativeLM,
}

var knownProviders = map[ProviderID]struct{}{
	GenericMT:    {},
	NeuralMT:     {},
	GenerativeLM: {},
}

// ParseProvider resolves a wire name (canonical or alias) to a canonical provider.
func ParseProvider(raw string) (ProviderID, bool) {
	name := normalizeProviderName(raw)
	if name == "" {
		return "", false
	}
	if alias, ok := ProviderAliases[name]; ok {
		return alias, true
	}
	id := ProviderID(name)
	if _, ok := knownProviders[id]; ok {
		return id, true
	}
	return "", false
}

// AcceptedProviderNames lists every wire name ParseProvider accepts, sorted.
func AcceptedProviderNames() []string {
	names := make([]string, 0, len(knownProviders)+len(ProviderAliases))
	for id := range knownProviders {
		names = append(names, string(id))
	}
	for alias := range ProviderAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

func isKnownProvider(id ProviderID) bool {
	_, ok := knownProviders[id]
	return ok
}

func (id ProviderID) String() string {
	return string(id)
}

// Provider translates one string into one target language via one upstream API.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	TargetLang string
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text         string
	TargetLang   string
	ProviderName string
	LatencyMs    int64
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
