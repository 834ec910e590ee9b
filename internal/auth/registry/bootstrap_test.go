package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authsession/internal/auth/service"
	"authsession/internal/auth/transport"
	"authsession/internal/platform/config"
)

func TestBootstrap(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)

	r, err := Bootstrap(context.Background(), Dependencies{Config: cfg})
	require.NoError(t, err)

	svc, err := Get(r, AuthServiceKey)
	require.NoError(t, err)
	assert.NotNil(t, svc)

	client, err := Get(r, TransportKey)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestServiceFactoryRequiresTransport(t *testing.T) {
	r := New()
	require.NoError(t, Register(r, AuthServiceKey, func(context.Context) (*service.Service, error) {
		tc, err := Get(r, TransportKey)
		if err != nil {
			return nil, err
		}
		return service.New(tc), nil
	}))
	require.NoError(t, Register(r, TransportKey, func(context.Context) (*transport.Client, error) {
		return transport.New(config.Client{}), nil
	}))

	_, err := Initialize(context.Background(), r, AuthServiceKey)
	assert.ErrorIs(t, err, ErrNotInitialized)
}
