package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxInputChars bounds the text sent to the embedding API.
const MaxInputChars = 8000

var (
	// ErrUnavailable means every configured transport failed.
	ErrUnavailable = errors.New("embedding provider unavailable")
	// ErrInvalidResponse means the provider answered with a payload that
	// does not carry a usable embedding.
	ErrInvalidResponse = errors.New("invalid embedding provider response")
)

type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// ValidateInput reports whether text is suitable for embedding: non-empty
// after trimming and at most MaxInputChars. Callers are expected to check
// this before Embed; the embedder itself does not re-validate.
func ValidateInput(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return len(text) <= MaxInputChars
}

type Config struct {
	Model      string
	Dimensions int
	APIKey     string
	Endpoint   string
	Timeout    time.Duration
}

type Factory func(cfg Config) (IEmbedder, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewEmbedder(name string, cfg Config) (IEmbedder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("embedding.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
	return factory(cfg)
}
