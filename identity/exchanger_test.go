package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	goOnboard "github.com/MrEthical07/goOnboard"
	"github.com/google/uuid"
)

func TestHTTPExchangerSuccess(t *testing.T) {
	ts, srv := newTokenServer(t)
	x := NewHTTPExchanger(testConfig(srv.URL), nil)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	x.now = func() time.Time { return now }

	tokens, err := x.Exchange(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tokens.AccessToken != "access-ABC123" || tokens.RefreshToken != "refresh-ABC123" || tokens.IDToken == "" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
	if !tokens.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", tokens.ExpiresAt)
	}

	req, form := ts.lastRequest()
	if req.Method != http.MethodPost {
		t.Fatalf("unexpected method %s", req.Method)
	}
	if form["grant_type"] != "authorization_code" || form["client_id"] != "onboard-app" || form["redirect_uri"] != "app://callback" {
		t.Fatalf("unexpected form %v", form)
	}
	if _, err := uuid.Parse(req.Header.Get("X-Request-Id")); err != nil {
		t.Fatalf("expected uuid request id, got %q", req.Header.Get("X-Request-Id"))
	}
}

func TestHTTPExchangerClassifiesFailures(t *testing.T) {
	ts, srv := newTokenServer(t)
	ts.failures["EXPIRED"] = tokenFailure{status: http.StatusBadRequest, code: "expired_code"}
	ts.failures["GONE"] = tokenFailure{status: http.StatusGone}
	ts.failures["SLOW"] = tokenFailure{status: http.StatusTooManyRequests}
	ts.failures["BOOM"] = tokenFailure{status: http.StatusInternalServerError}
	ts.failures["ODD"] = tokenFailure{status: http.StatusBadRequest, code: "invalid_request"}
	x := NewHTTPExchanger(testConfig(srv.URL), nil)

	tests := map[string]goOnboard.ClientErrorKind{
		"WRONG":   goOnboard.ClientErrorInvalidCode,
		"EXPIRED": goOnboard.ClientErrorCodeExpired,
		"GONE":    goOnboard.ClientErrorCodeExpired,
		"SLOW":    goOnboard.ClientErrorRateLimited,
		"BOOM":    goOnboard.ClientErrorUnexpected,
		"ODD":     goOnboard.ClientErrorUnexpected,
	}
	for code, want := range tests {
		_, err := x.Exchange(context.Background(), code)
		var ce *goOnboard.ClientError
		if !errors.As(err, &ce) || ce.Kind != want {
			t.Fatalf("%s: expected kind %v, got %v", code, want, err)
		}
	}
}

func TestHTTPExchangerNetworkFailure(t *testing.T) {
	_, srv := newTokenServer(t)
	x := NewHTTPExchanger(testConfig(srv.URL), nil)
	srv.Close()

	_, err := x.Exchange(context.Background(), "ABC123")
	if !errors.Is(err, goOnboard.ErrNetwork) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestHTTPExchangerRejectsIncompleteResponse(t *testing.T) {
	srv := newStaticServer(t, http.StatusOK, `{"access_token":"a"}`)
	x := NewHTTPExchanger(testConfig(srv.URL), nil)
	if _, err := x.Exchange(context.Background(), "X"); !errors.Is(err, goOnboard.ErrUnexpected) {
		t.Fatalf("expected unexpected failure, got %v", err)
	}

	srv = newStaticServer(t, http.StatusOK, `not json`)
	x = NewHTTPExchanger(testConfig(srv.URL), nil)
	if _, err := x.Exchange(context.Background(), "X"); !errors.Is(err, goOnboard.ErrUnexpected) {
		t.Fatalf("expected unexpected failure, got %v", err)
	}
}
