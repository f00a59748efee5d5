package httpapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// defaultMaxBodyBytes bounds JSON request bodies when Options.MaxBodyBytes is unset.
const defaultMaxBodyBytes int64 = 1 << 20

// Options configures the HTTP layer. It is read once by NewMux.
type Options struct {
	// Logger is the base structured logger; a per-request child is derived from it.
	Logger zerolog.Logger
	// BaseContext is canceled on shutdown so in-flight backend calls are aborted.
	BaseContext context.Context
	// MaxBodyBytes limits JSON request bodies (default 1 MiB).
	MaxBodyBytes int64
	// RequestTimeout bounds backend-calling handlers. Zero means no additional
	// timeout beyond the backend client's own deadlines.
	RequestTimeout time.Duration
	// CORS is opt-in; when disabled no CORS middleware is added.
	CORS CORSOptions
}

// CORSOptions configures cross-origin access.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.BaseContext == nil {
		o.BaseContext = context.Background()
	}
	if o.RequestTimeout < 0 {
		o.RequestTimeout = 0
	}
	return o
}
