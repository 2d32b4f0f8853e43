package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goOnboard/jwt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// tokenServer fakes an OAuth token endpoint. Codes map to the user they sign in;
// failures maps codes to a status and OAuth error.
type tokenServer struct {
	t        *testing.T
	signer   *jwt.Signer
	users    map[string][2]string
	failures map[string]tokenFailure

	mu       sync.Mutex
	requests []*http.Request
	forms    []map[string]string
}

type tokenFailure struct {
	status int
	code   string
}

func newTokenServer(t *testing.T) (*tokenServer, *httptest.Server) {
	t.Helper()
	signer, err := jwt.NewSigner(jwt.SignerConfig{
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    testSecret,
		Issuer:        "https://login.example",
		TTL:           time.Hour,
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	ts := &tokenServer{
		t:        t,
		signer:   signer,
		users:    map[string][2]string{"ABC123": {"user-1", "1001"}},
		failures: map[string]tokenFailure{},
	}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	return ts, srv
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	code := r.PostForm.Get("code")
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.forms = append(s.forms, map[string]string{
		"grant_type":   r.PostForm.Get("grant_type"),
		"code":         code,
		"client_id":    r.PostForm.Get("client_id"),
		"redirect_uri": r.PostForm.Get("redirect_uri"),
	})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f, ok := s.failures[code]; ok {
		w.WriteHeader(f.status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": f.code})
		return
	}
	user, ok := s.users[code]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}
	idToken, err := s.signer.Sign(user[0], user[1], "onboard-app")
	if err != nil {
		s.t.Errorf("sign id token: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "access-" + code,
		"refresh_token": "refresh-" + code,
		"id_token":      idToken,
		"expires_in":    3600,
	})
}

func (s *tokenServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *tokenServer) lastRequest() (*http.Request, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1], s.forms[len(s.forms)-1]
}

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.TokenEndpoint = endpoint
	cfg.ClientID = "onboard-app"
	cfg.RedirectURI = "app://callback"
	cfg.MaxFailedExchanges = 2
	return cfg
}

func testVerifier(t *testing.T) *jwt.Verifier {
	t.Helper()
	v, err := jwt.NewVerifier(jwt.Config{
		SigningMethod: jwt.MethodHS256,
		Secret:        testSecret,
		Issuer:        "https://login.example",
		Audience:      "onboard-app",
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func newStaticServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
