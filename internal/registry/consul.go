package registry

import (
	"fmt"

	capi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registry registers the HTTP service with a Consul agent so it can be
// discovered by other services. Registration is optional; the server runs
// fine without an agent.
type Registry struct {
	client    *capi.Client
	serviceID string
	logger    *zerolog.Logger
}

// New connects to the Consul agent at the given address.
func New(addr string, logger *zerolog.Logger) (*Registry, error) {
	cfg := capi.DefaultConfig()
	cfg.Address = addr

	client, err := capi.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Registry{
		client: client,
		logger: logger,
	}, nil
}

// Register announces the service with an HTTP health check on /health.
func (r *Registry) Register(name, host string, port int) error {
	r.serviceID = fmt.Sprintf("%s-%s-%d", name, host, port)

	registration := &capi.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &capi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", host, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return err
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("registered service with consul")
	return nil
}

// Deregister removes the service from the agent at shutdown.
func (r *Registry) Deregister() error {
	if r.serviceID == "" {
		return nil
	}
	return r.client.Agent().ServiceDeregister(r.serviceID)
}
