package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// OutputSchema is a declarative shape of the JSON the model must return:
// field name mapped to an example value. The provider embeds it into the
// request so the response can be parsed without post-hoc guessing.
type OutputSchema map[string]interface{}

// ErrOverloaded is the typed classification for provider capacity errors.
// Callers must match with errors.Is instead of sniffing error text.
var ErrOverloaded = errors.New("model is overloaded")

// Option allows optional parameters like Temperature or a model override.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any structured-output model backend.
type Provider interface {
	// Generate sends a prompt plus an output-shape contract and returns the
	// structured JSON result. Capacity failures surface as ErrOverloaded.
	Generate(ctx context.Context, prompt string, schema OutputSchema, options ...Option) (json.RawMessage, error)
}
