// Package tool selects texture compressors for a target format.
//
// A Registry is an ordered list of strategies built by the caller. Lookup
// returns the first strategy that can produce the requested format; there
// is no process-wide registration.
package tool

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/woozymasta/ktx"
)

// ErrUnsupportedFormat is returned when no strategy handles a format.
var ErrUnsupportedFormat = errors.New("no compression strategy for format")

// Compressor encodes one image level into compressed block data.
type Compressor interface {
	Compress(ctx context.Context, img image.Image) ([]byte, error)
}

// Strategy produces compressors for the formats it supports.
type Strategy interface {
	Name() string
	Compressor(format ktx.CompressionFormat, srgb bool) (Compressor, bool)
}

// Registry holds strategies in lookup order.
type Registry struct {
	strategies []Strategy
}

// NewRegistry returns a registry that consults strategies in the given order.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		if s != nil {
			r.strategies = append(r.strategies, s)
		}
	}
	return r
}

// Strategies returns the registered strategies in lookup order.
func (r *Registry) Strategies() []Strategy {
	if r == nil {
		return nil
	}
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Find returns the first strategy supporting format and its compressor.
// A nil registry supports nothing.
func (r *Registry) Find(format ktx.CompressionFormat, srgb bool) (Strategy, Compressor, error) {
	if r == nil {
		return nil, nil, fmt.Errorf("%w: %s: no registry", ErrUnsupportedFormat, format)
	}
	for _, s := range r.strategies {
		if c, ok := s.Compressor(format, srgb); ok {
			return s, c, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
