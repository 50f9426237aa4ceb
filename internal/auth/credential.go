package auth

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the token endpoint answers 200 without an access token
var ErrMalformedResponse = errors.New("token response has no access_token")

// Credential is the application-wide bearer token plus the consumer pair it was minted from
type Credential struct {
	ConsumerKey    string
	ConsumerSecret string
	BearerToken    string

	// Minted is true when BearerToken came from an exchange during this run
	// rather than from the cache.
	Minted bool
}

// ExchangeError reports a non-200 answer from the token endpoint
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("getting bearer token failed (status %d):\n%s", e.StatusCode, e.Body)
}
