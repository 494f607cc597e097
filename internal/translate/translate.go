// Package translate turns recognized text into the target language.
//
// Two translators are provided: DeepL, which calls the DeepL REST API, and
// Passthrough, which returns its input and keeps the pipeline usable
// offline. Both apply the same validation, so a request that one rejects
// the other rejects too.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// MaxTextLength is the longest text, in characters, accepted for
// translation.
const MaxTextLength = 5000

var (
	// ErrSameLanguage is returned when source and target are equal.
	ErrSameLanguage = errors.New("source and target languages are the same")

	// ErrTextTooLong is returned for text over MaxTextLength characters.
	ErrTextTooLong = errors.New("text too long to translate")

	// ErrUnsupportedLanguage is returned for a language outside the
	// supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrUnknownProvider is returned by New for an unrecognized provider.
	ErrUnknownProvider = errors.New("unknown translation provider")
)

// AutoDetect asks the translator to detect the source language.
const AutoDetect = "auto"

var languages = map[string]bool{
	"ja": true, "en": true, "de": true, "fr": true, "es": true, "pt": true,
	"it": true, "nl": true, "pl": true, "ru": true, "zh": true,
}

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Supported reports whether lang is a supported target language.
func Supported(lang string) bool {
	return languages[strings.ToLower(lang)]
}

// Validate checks a translation request.
//
// The target must be supported and differ from the source. The source must
// be supported, empty or "auto". Text is limited to MaxTextLength
// characters.
func Validate(text, source, target string) error {
	source, target = strings.ToLower(source), strings.ToLower(target)

	if !languages[target] {
		return fmt.Errorf("%w: target %q", ErrUnsupportedLanguage, target)
	}
	if source == target {
		return fmt.Errorf("%w: %q", ErrSameLanguage, target)
	}
	if source != "" && source != AutoDetect && !languages[source] {
		return fmt.Errorf("%w: source %q", ErrUnsupportedLanguage, source)
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, n, MaxTextLength)
	}
	return nil
}

// Passthrough returns text unchanged after validating the request.
type Passthrough struct{}

// Translate implements Translator.
func (Passthrough) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := Validate(text, source, target); err != nil {
		return "", err
	}
	return text, nil
}

// Settings selects and configures a translator.
type Settings struct {
	Provider string
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// New builds the translator named by s.Provider: "deepl" or "none".
func New(s Settings, log zerolog.Logger) (Translator, error) {
	switch strings.ToLower(s.Provider) {
	case "", "none":
		return Passthrough{}, nil
	case "deepl":
		if s.APIKey == "" {
			return nil, fmt.Errorf("deepl: missing API key")
		}
		opts := []DeepLOption{WithLogger(log)}
		if s.Endpoint != "" {
			opts = append(opts, WithEndpoint(s.Endpoint))
		}
		if s.Timeout > 0 {
			opts = append(opts, WithTimeout(s.Timeout))
		}
		return NewDeepL(s.APIKey, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}
