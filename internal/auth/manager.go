package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Manager obtains the bearer token used by every search in a run
type Manager struct {
	tokenURL string
	client   *http.Client

	// OnExchange, if set, is called after every token request with its outcome.
	OnExchange func(err error)
}

// NewManager creates a manager that exchanges credentials at tokenURL.
// A nil client means http.DefaultClient.
func NewManager(tokenURL string, client *http.Client) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{tokenURL: tokenURL, client: client}
}

// Ensure returns a usable credential. A non-empty cached token is returned
// unchanged without any network call; its expiry is never checked.
func (m *Manager) Ensure(ctx context.Context, key, secret, cached string) (Credential, error) {
	cred := Credential{ConsumerKey: key, ConsumerSecret: secret, BearerToken: cached}
	if cached != "" {
		return cred, nil
	}

	token, err := m.Exchange(ctx, key, secret)
	if m.OnExchange != nil {
		m.OnExchange(err)
	}
	if err != nil {
		return Credential{}, err
	}

	cred.BearerToken = token
	cred.Minted = true
	return cred, nil
}

// Exchange performs the client-credentials grant and returns the access token
func (m *Manager) Exchange(ctx context.Context, key, secret string) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(key, secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	log.Printf("Requesting bearer token from %s", m.tokenURL)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ExchangeError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp struct {
		TokenType   string `json:"token_type"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", ErrMalformedResponse
	}

	return tokenResp.AccessToken, nil
}
