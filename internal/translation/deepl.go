package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"horse.fit/transgate/internal/language"
)

const (
	DefaultDeepLFreeEndpoint = "https://api-free.deepl.com/v2"
	DefaultDeepLProEndpoint  = "https://api.deepl.com/v2"
)

// DeepLProvider calls the DeepL v2 translate endpoint after remapping the target code.
type DeepLProvider struct {
	endpointURL string
	apiKey      string
	remap       language.Remap
	client      *http.Client
}

// NewDeepLProvider builds a DeepL adapter. An empty endpoint picks the free or pro API
// from the key suffix (free keys end in ":fx").
func NewDeepLProvider(apiKey, endpoint string, client *http.Client) (*DeepLProvider, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, fmt.Errorf("deepl api key is empty")
	}

	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if base == "" {
		base = DefaultDeepLProEndpoint
		if strings.HasSuffix(key, ":fx") {
			base = DefaultDeepLFreeEndpoint
		}
	}
	if client == nil {
		client = &http.Client{}
	}

	return &DeepLProvider{
		endpointURL: base + "/translate",
		apiKey:      key,
		remap:       language.NeuralMTRemap,
		client:      client,
	}, nil
}

func (p *DeepLProvider) Name() string {
	return string(NeuralMT)
}

func (p *DeepLProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("deepl provider is nil")
	}

	targetLang := p.remap.Apply(req.TargetLang)
	body, err := json.Marshal(deeplRequest{
		Text:       []string{req.Text},
		TargetLang: targetLang,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal deepl request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build deepl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send deepl request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepl response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload deeplErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Message); msg != "" {
				return nil, fmt.Errorf("deepl status %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("deepl status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed deeplResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode deepl response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return nil, fmt.Errorf("deepl response missing translations")
	}

	return &TranslateResponse{
		Text:         parsed.Translations[0].Text,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

type deeplErrorResponse struct {
	Message string `json:"message"`
}
