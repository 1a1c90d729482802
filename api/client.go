// Package api holds the typed clients for the backend's feature endpoints.
// All calls go through the shared transport, which handles bearer tokens and
// token refresh transparently.
package api

import (
	"github.com/sistematransporte/transporte-go/log"
	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Endpoints are the backend feature paths, relative to the base URL.
type Endpoints struct {
	Usuarios    string
	Tarjetas    string
	Transportes string
	Empleados   string
	Roles       string
	Reportes    string
	Dashboard   string
}

// DefaultEndpoints returns the backend's feature endpoint table.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Usuarios:    "api/usuarios",
		Tarjetas:    "api/tarjetas",
		Transportes: "api/transportes",
		Empleados:   "api/empleados",
		Roles:       "api/roles",
		Reportes:    "api/reportes",
		Dashboard:   "api/dashboard",
	}
}

// Client bundles the feature clients for one backend.
type Client struct {
	http      thttp.Clienter
	baseURL   string
	endpoints Endpoints
	logger    *log.Logger

	Usuarios    *UsuariosClient
	Tarjetas    *TarjetasClient
	Transportes *TransportesClient
	Empleados   *EmpleadosClient
	Dashboard   *DashboardClient
}

// Option configures the feature client bundle.
type Option func(*Client)

// WithEndpoints overrides the backend feature endpoint table.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates the feature clients on top of the given HTTP client.
func New(http thttp.Clienter, baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      http,
		baseURL:   baseURL,
		endpoints: DefaultEndpoints(),
		logger:    log.G,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Usuarios = &UsuariosClient{client: c, endpoint: c.endpoints.Usuarios}
	c.Tarjetas = &TarjetasClient{client: c, endpoint: c.endpoints.Tarjetas}
	c.Transportes = &TransportesClient{client: c, endpoint: c.endpoints.Transportes}
	c.Empleados = &EmpleadosClient{client: c, endpoint: c.endpoints.Empleados}
	c.Dashboard = &DashboardClient{client: c, endpoint: c.endpoints.Dashboard}

	return c
}

func (c *Client) url(segments ...string) string {
	return thttp.JoinURL(c.baseURL, segments...)
}
