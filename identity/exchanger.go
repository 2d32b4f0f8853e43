package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goOnboard "github.com/MrEthical07/goOnboard"
	"github.com/google/uuid"
)

// Exchanger trades an authentication code for tokens. Failures should be
// *goOnboard.ClientError; anything else is reported as unexpected.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (goOnboard.TokenSet, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, code string) (goOnboard.TokenSet, error)

func (f ExchangerFunc) Exchange(ctx context.Context, code string) (goOnboard.TokenSet, error) {
	return f(ctx, code)
}

const maxTokenResponseBytes = 1 << 20

// HTTPExchanger posts an authorization_code grant to an OAuth token endpoint.
type HTTPExchanger struct {
	endpoint     string
	clientID     string
	clientSecret string
	redirectURI  string
	client       *http.Client
	now          func() time.Time
}

// NewHTTPExchanger returns an exchanger for cfg. A nil client gets one with
// cfg.HTTPTimeout.
func NewHTTPExchanger(cfg Config, client *http.Client) *HTTPExchanger {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &HTTPExchanger{
		endpoint:     cfg.TokenEndpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		client:       client,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// Exchange performs one token request.
func (x *HTTPExchanger) Exchange(ctx context.Context, code string) (goOnboard.TokenSet, error) {
	form := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
		"client_id":  {x.clientID},
	}
	if x.redirectURI != "" {
		form.Set("redirect_uri", x.redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if x.clientSecret != "" {
		req.SetBasicAuth(x.clientID, x.clientSecret)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return goOnboard.TokenSet{}, classifyFailure(resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, fmt.Errorf("decode token response: %w", err))
	}
	if tr.AccessToken == "" || tr.IDToken == "" {
		return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, errors.New("token response without access or id token"))
	}

	tokens := goOnboard.TokenSet{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		IDToken:      tr.IDToken,
	}
	if tr.ExpiresIn > 0 {
		tokens.ExpiresAt = x.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tokens, nil
}

func classifyFailure(status int, body []byte) *goOnboard.ClientError {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	cause := fmt.Errorf("token endpoint status %d", status)
	if er.Error != "" {
		cause = fmt.Errorf("token endpoint status %d: %s", status, er.Error)
	}

	switch {
	case status == http.StatusBadRequest && er.Error == "invalid_grant":
		return goOnboard.NewClientError(goOnboard.ClientErrorInvalidCode, cause)
	case status == http.StatusBadRequest && er.Error == "expired_code",
		status == http.StatusGone:
		return goOnboard.NewClientError(goOnboard.ClientErrorCodeExpired, cause)
	case status == http.StatusTooManyRequests:
		return goOnboard.NewClientError(goOnboard.ClientErrorRateLimited, cause)
	default:
		return goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, cause)
	}
}
