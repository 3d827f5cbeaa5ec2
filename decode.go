package docmodel

import (
	"github.com/goliatone/go-docmodel/internal/hydrate"
)

// DecodeOption tunes Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict    bool
	useNumber bool
}

// DecodeStrict rejects attributes that have no matching struct field.
func DecodeStrict() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.strict = true
	}
}

// DecodeUseNumber decodes numbers into json.Number when the target is any.
func DecodeUseNumber() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.useNumber = true
	}
}

// Decode hydrates a T from the plain form of d using its JSON field tags.
// When T has a Validate method it runs after decoding.
func Decode[T any](d *Document, opts ...DecodeOption) (T, error) {
	cfg := decodeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	hydrateOpts := []hydrate.DecoderOption[T]{hydrate.WithPostHook[T](hydrate.Validate[T])}
	if cfg.strict {
		hydrateOpts = append(hydrateOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	if cfg.useNumber {
		hydrateOpts = append(hydrateOpts, hydrate.WithUseNumber[T]())
	}
	ctx := hydrate.Context{Path: pathOf(d).String(), ID: d.ID()}
	return hydrate.NewDecoder(hydrateOpts...).Decode(ctx, d.ToJSON())
}
