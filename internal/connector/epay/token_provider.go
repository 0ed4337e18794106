package epay

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/go-resty/resty/v2"
)

// tokenResponse is the OAuth2 client-credentials response body, grounded on
// the teacher's internal/provider/epay TokenResponse.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenProvider exchanges a connector's client_id/client_secret for a
// bearer access token against epay's OAuth2 endpoint, generalizing the
// teacher's Client.GetPaymentToken (internal/provider/epay/token.go) into a
// standalone step the caller runs once per cache miss rather than on a
// background ticker.
type TokenProvider struct {
	http *resty.Client
}

// NewTokenProvider builds a TokenProvider backed by its own resty client,
// separate from the HTTP Exchange Executor's client since a token exchange
// is multipart/form-data, not a connector flow body.
func NewTokenProvider() *TokenProvider {
	return &TokenProvider{http: resty.New()}
}

// Fetch exchanges clientID/clientSecret for a bearer token at oauthURL +
// "/oauth2/token" and returns the token and its TTL in seconds.
func (p *TokenProvider) Fetch(ctx context.Context, oauthURL, clientID, clientSecret string) (string, int64, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("client_id", clientID)
	_ = writer.WriteField("client_secret", clientSecret)
	_ = writer.WriteField("grant_type", "client_credentials")
	_ = writer.WriteField("scope", "webapi usermanagement email_send verification statement statistics payment")
	if err := writer.Close(); err != nil {
		return "", 0, fmt.Errorf("epay: encode token request: %w", err)
	}

	var out tokenResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", writer.FormDataContentType()).
		SetBody(body.Bytes()).
		SetResult(&out).
		Post(oauthURL + "/oauth2/token")
	if err != nil {
		return "", 0, fmt.Errorf("epay: token request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", 0, fmt.Errorf("epay: token endpoint returned %d: %s", resp.StatusCode(), resp.Body())
	}

	return out.AccessToken, out.ExpiresIn, nil
}
