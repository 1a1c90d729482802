package api

import (
	"context"

	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Stats are the aggregate dashboard counters.
type Stats struct {
	Usuarios         int
	Tarjetas         int
	Transportes      int
	TransaccionesHoy int
}

// statsResponse mirrors the nested shape of the estadisticas endpoint.
type statsResponse struct {
	Usuarios struct {
		Total int `json:"total"`
	} `json:"usuarios"`
	Tarjetas struct {
		Total            int `json:"total"`
		TransaccionesHoy int `json:"transaccionesHoy"`
	} `json:"tarjetas"`
	Transportes struct {
		Total int `json:"total"`
	} `json:"transportes"`
}

// DashboardClient fetches aggregate statistics.
type DashboardClient struct {
	client   *Client
	endpoint string
}

// Stats returns the dashboard counters.
func (d *DashboardClient) Stats(ctx context.Context) (*Stats, error) {
	var resp statsResponse
	_, err := d.client.http.Request(thttp.MethodGet,
		d.client.url(d.endpoint, "estadisticas"), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&resp))
	if err != nil {
		return nil, err
	}

	return &Stats{
		Usuarios:         resp.Usuarios.Total,
		Tarjetas:         resp.Tarjetas.Total,
		Transportes:      resp.Transportes.Total,
		TransaccionesHoy: resp.Tarjetas.TransaccionesHoy,
	}, nil
}
