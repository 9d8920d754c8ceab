package ai

import (
	"context"
	"fmt"
)

// Unavailable answers every call with ErrUpstream. It stands in for the model
// when credentials are missing so the HTTP surface still boots.
type Unavailable struct {
	Reason error
}

// Generate always fails.
func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %v", ErrUpstream, u.Reason)
}
