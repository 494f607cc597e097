// Package config loads server settings from a .env file and the process
// environment.
//
// Environment variables take precedence over the .env file. The file is
// looked up in the working directory first and then next to the executable;
// a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Edge and contour backends.
const (
	BackendNative = "native"
	BackendOpenCV = "opencv"
)

// Translation providers.
const (
	ProviderNone  = "none"
	ProviderDeepL = "deepl"
)

// DefaultDeepLURL is the DeepL free-tier endpoint.
const DefaultDeepLURL = "https://api-free.deepl.com/v2/translate"

// Config holds every setting the server reads at startup.
type Config struct {
	LogLevel  string
	LogFormat string

	// Backend selects the binarizer's edge extractor and tracer.
	Backend string

	// ParallelPaint enables the row-parallel rasterizer.
	ParallelPaint bool

	OCREngine   string
	OCRLanguage string

	TranslateProvider string
	DeepLAPIKey       string
	DeepLAPIURL       string
	SourceLang        string
	TargetLang        string

	// HTTPTimeout bounds image downloads and translation requests.
	HTTPTimeout time.Duration
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	return load(envPaths, os.Getenv)
}

func load(envPaths []string, getenv func(string) string) (*Config, error) {
	var fileVals map[string]string
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		vals, err := godotenv.Read(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
		fileVals = vals
		break
	}

	get := func(key, defaultValue string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(fileVals[key]); v != "" {
			return v
		}
		return defaultValue
	}

	parallel, err := strconv.ParseBool(get("IMAGE_TRANSLATOR_PARALLEL_PAINT", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_TRANSLATOR_PARALLEL_PAINT: %w", err)
	}

	timeout, err := time.ParseDuration(get("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		LogLevel:          strings.ToLower(get("IMAGE_TRANSLATOR_LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(get("IMAGE_TRANSLATOR_LOG_FORMAT", "console")),
		Backend:           strings.ToLower(get("IMAGE_TRANSLATOR_BACKEND", BackendNative)),
		ParallelPaint:     parallel,
		OCREngine:         get("OCR_ENGINE", "tesseract"),
		OCRLanguage:       get("OCR_LANGUAGE", "eng"),
		TranslateProvider: strings.ToLower(get("TRANSLATE_PROVIDER", ProviderNone)),
		DeepLAPIKey:       get("DEEPL_API_KEY", ""),
		DeepLAPIURL:       get("DEEPL_API_URL", DefaultDeepLURL),
		SourceLang:        strings.ToLower(get("TRANSLATE_SOURCE_LANG", "auto")),
		TargetLang:        strings.ToLower(get("TRANSLATE_TARGET_LANG", "fr")),
		HTTPTimeout:       timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings and provider requirements.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid IMAGE_TRANSLATOR_LOG_FORMAT %q: want console or json", c.LogFormat)
	}

	switch c.Backend {
	case BackendNative, BackendOpenCV:
	default:
		return fmt.Errorf("invalid IMAGE_TRANSLATOR_BACKEND %q: want %s or %s", c.Backend, BackendNative, BackendOpenCV)
	}

	switch c.TranslateProvider {
	case ProviderNone:
	case ProviderDeepL:
		if c.DeepLAPIKey == "" {
			return fmt.Errorf("DEEPL_API_KEY is required when TRANSLATE_PROVIDER=deepl")
		}
	default:
		return fmt.Errorf("invalid TRANSLATE_PROVIDER %q: want %s or %s", c.TranslateProvider, ProviderDeepL, ProviderNone)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
