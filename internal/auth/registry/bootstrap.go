package registry

import (
	"context"

	"authsession/internal/auth/service"
	"authsession/internal/auth/transport"
	"authsession/internal/platform/config"
)

// Well-known keys of the session core.
var (
	TransportKey   = NewKey[*transport.Client]("transport")
	AuthServiceKey = NewKey[*service.Service]("auth-service")
)

// Dependencies carries the options the core is built with.
type Dependencies struct {
	Config           config.Client
	TransportOptions []transport.Option
	ServiceOptions   []service.Option
}

// Bootstrap registers and initializes the transport client and the auth
// service bound to it. The service factory resolves the transport from the
// registry, so the order of initialization is enforced rather than assumed.
func Bootstrap(ctx context.Context, deps Dependencies) (*Registry, error) {
	r := New()
	if err := Register(r, TransportKey, func(context.Context) (*transport.Client, error) {
		return transport.New(deps.Config, deps.TransportOptions...), nil
	}); err != nil {
		return nil, err
	}
	if err := Register(r, AuthServiceKey, func(context.Context) (*service.Service, error) {
		t, err := Get(r, TransportKey)
		if err != nil {
			return nil, err
		}
		opts := append([]service.Option{service.WithAvatarMaxBytes(deps.Config.AvatarMaxBytes)}, deps.ServiceOptions...)
		return service.New(t, opts...), nil
	}); err != nil {
		return nil, err
	}

	if _, err := Initialize(ctx, r, TransportKey); err != nil {
		return nil, err
	}
	if _, err := Initialize(ctx, r, AuthServiceKey); err != nil {
		return nil, err
	}
	return r, nil
}
