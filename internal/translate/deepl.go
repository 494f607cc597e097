package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is the DeepL free-tier translate endpoint.
const DefaultEndpoint = "https://api-free.deepl.com/v2/translate"

// maxErrorBody caps how much of an error response is quoted in errors.
const maxErrorBody = 512

// DeepL translates through the DeepL REST API.
type DeepL struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// DeepLOption configures a DeepL translator.
type DeepLOption func(*DeepL)

// WithEndpoint overrides the API endpoint, for the Pro tier or tests.
func WithEndpoint(endpoint string) DeepLOption {
	return func(d *DeepL) { d.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) DeepLOption {
	return func(d *DeepL) { d.client = client }
}

// WithTimeout sets the request timeout on a fresh HTTP client.
func WithTimeout(timeout time.Duration) DeepLOption {
	return func(d *DeepL) { d.client = &http.Client{Timeout: timeout} }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log zerolog.Logger) DeepLOption {
	return func(d *DeepL) { d.log = log }
}

// NewDeepL creates a DeepL translator authenticating with apiKey.
func NewDeepL(apiKey string, opts ...DeepLOption) *DeepL {
	d := &DeepL{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements Translator. Blank text is returned as is without a
// request.
func (d *DeepL) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := Validate(text, source, target); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(target))
	if source != "" && !strings.EqualFold(source, AutoDetect) {
		form.Set("source_lang", strings.ToUpper(source))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("deepl: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl: request failed: %w", err)
	}
	defer resp.Body.Close()

	d.log.Debug().
		Int("status", resp.StatusCode).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("deepl response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("deepl: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("deepl: failed to decode response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", fmt.Errorf("deepl: no translations in response")
	}
	return out.Translations[0].Text, nil
}
