package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goOnboard "github.com/MrEthical07/goOnboard"
	"github.com/MrEthical07/goOnboard/i18n"
	"github.com/MrEthical07/goOnboard/identity"
	"github.com/MrEthical07/goOnboard/jwt"
	"github.com/MrEthical07/goOnboard/metrics/export/prometheus"
)

const (
	localIssuer   = "onboard-demo"
	localClientID = "onboard-demo"
)

// demoUsers are the codes the local provider accepts.
var demoUsers = map[string][2]string{
	"ABC123": {"8e6a2f7c-demo-user", "10001"},
	"424242": {"0b9d51aa-demo-user", "10002"},
}

func newApp(logger *slog.Logger) (*app, error) {
	cfg, err := goOnboard.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	client, closeRedis, err := openRedis()
	if err != nil {
		return nil, err
	}

	manager, err := newManager(client, logger)
	if err != nil {
		closeRedis()
		return nil, err
	}

	bundle := i18n.Default()
	engine, err := goOnboard.New().
		WithConfig(cfg).
		WithIdentityManager(manager).
		WithLocalizer(bundle).
		WithAuditSink(goOnboard.NewJSONWriterSink(os.Stderr)).
		WithLatencyHistograms(cfg.Metrics.Enabled).
		WithLogger(logger).
		Build()
	if err != nil {
		closeRedis()
		return nil, err
	}

	return &app{
		engine:   engine,
		manager:  manager,
		bundle:   bundle,
		exporter: prometheus.New(engine),
		cleanup: func() {
			engine.Close()
			closeRedis()
		},
	}, nil
}

func openRedis() (redis.UniversalClient, func(), error) {
	addr := redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

func newManager(client redis.UniversalClient, logger *slog.Logger) (*identity.Manager, error) {
	opts := []identity.Option{identity.WithRedis(client), identity.WithLogger(logger)}

	if tokenEndpoint != "" {
		if idTokenSecret == "" {
			return nil, errors.New("--id-token-secret is required with --token-endpoint")
		}
		cfg, err := identity.LoadConfigFromEnv()
		if err != nil {
			cfg = identity.DefaultConfig()
			cfg.ClientID = localClientID
		}
		cfg.TokenEndpoint = tokenEndpoint
		verifier, err := jwt.NewVerifier(jwt.Config{SigningMethod: jwt.MethodHS256, Secret: []byte(idTokenSecret)})
		if err != nil {
			return nil, err
		}
		return identity.NewManager(cfg, identity.NewHTTPExchanger(cfg, nil), verifier, opts...)
	}

	secret := []byte("onboard-demo-local-provider-secret")
	signer, err := jwt.NewSigner(jwt.SignerConfig{
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    secret,
		Issuer:        localIssuer,
		TTL:           time.Hour,
	})
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifier(jwt.Config{
		SigningMethod: jwt.MethodHS256,
		Secret:        secret,
		Issuer:        localIssuer,
		Audience:      localClientID,
	})
	if err != nil {
		return nil, err
	}

	cfg := identity.DefaultConfig()
	cfg.TokenEndpoint = "http://localhost/oauth/token"
	cfg.ClientID = localClientID
	return identity.NewManager(cfg, localExchanger(signer), verifier, opts...)
}

// localExchanger stands in for the token endpoint: demo codes sign in, anything
// else is an invalid grant.
func localExchanger(signer *jwt.Signer) identity.Exchanger {
	return identity.ExchangerFunc(func(ctx context.Context, code string) (goOnboard.TokenSet, error) {
		if err := ctx.Err(); err != nil {
			return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorNetwork, err)
		}
		user, ok := demoUsers[code]
		if !ok {
			return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorInvalidCode, errors.New("unknown demo code"))
		}
		idToken, err := signer.Sign(user[0], user[1], localClientID)
		if err != nil {
			return goOnboard.TokenSet{}, goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, err)
		}
		return goOnboard.TokenSet{
			AccessToken:  "demo-access-" + code,
			RefreshToken: "demo-refresh-" + code,
			IDToken:      idToken,
			ExpiresAt:    time.Now().Add(time.Hour),
		}, nil
	})
}
