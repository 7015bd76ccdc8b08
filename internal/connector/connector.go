// Package connector provides the transport capability the Bot API client is
// built on: perform one HTTP call for a token and return the raw response.
package connector

import (
	"context"

	"github.com/dayuer/tgmux/internal/telegram"
)

// Connector performs one Bot API call. Implementations must be safe for
// concurrent use; the client invokes them from many goroutines.
type Connector interface {
	Do(ctx context.Context, token string, req telegram.HTTPRequest) (telegram.HTTPResponse, error)
}

// Factory builds a fresh Connector. Construction failures are configuration
// errors.
type Factory func() (Connector, error)

// Func adapts a plain function to the Connector interface.
type Func func(ctx context.Context, token string, req telegram.HTTPRequest) (telegram.HTTPResponse, error)

// Do calls f.
func (f Func) Do(ctx context.Context, token string, req telegram.HTTPRequest) (telegram.HTTPResponse, error) {
	return f(ctx, token, req)
}
