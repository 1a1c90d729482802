package api

import (
	"context"

	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Transporte is a registered vehicle.
type Transporte struct {
	ID              string `json:"id_transporte"`
	Tipo            string `json:"tipo"`
	Placa           string `json:"placa"`
	Capacidad       int    `json:"capacidad"`
	Estado          string `json:"estado"`
	IDLinea         string `json:"id_linea,omitempty"`
	FechaRegistro   string `json:"fecha_registro"`
	FechaActualizar string `json:"fecha_actualizar"`
}

// TransporteCreate is the payload for registering a vehicle.
type TransporteCreate struct {
	Tipo      string `json:"tipo"`
	Placa     string `json:"placa"`
	Capacidad int    `json:"capacidad"`
	IDLinea   string `json:"id_linea,omitempty"`
}

// TransporteUpdate carries the fields to change; nil fields are left untouched.
type TransporteUpdate struct {
	Tipo      *string `json:"tipo,omitempty"`
	Placa     *string `json:"placa,omitempty"`
	Capacidad *int    `json:"capacidad,omitempty"`
	Estado    *string `json:"estado,omitempty"`
	IDLinea   *string `json:"id_linea,omitempty"`
}

// TransportesClient talks to the vehicle endpoints.
type TransportesClient struct {
	client   *Client
	endpoint string
}

// List returns all vehicles.
func (t *TransportesClient) List(ctx context.Context) ([]Transporte, error) {
	var transportes []Transporte
	_, err := t.client.http.Request(thttp.MethodGet, t.client.url(t.endpoint), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&transportes))
	if err != nil {
		return nil, err
	}
	return transportes, nil
}

// Get fetches a vehicle by UUID.
func (t *TransportesClient) Get(ctx context.Context, id string) (*Transporte, error) {
	var transporte Transporte
	_, err := t.client.http.Request(thttp.MethodGet, t.client.url(t.endpoint, id), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&transporte))
	if err != nil {
		return nil, err
	}
	return &transporte, nil
}

// Create registers a new vehicle.
func (t *TransportesClient) Create(ctx context.Context, in TransporteCreate) (*Transporte, error) {
	var transporte Transporte
	_, err := t.client.http.Request(thttp.MethodPost, t.client.url(t.endpoint), in,
		thttp.WithContext(ctx), thttp.WithResponse(&transporte))
	if err != nil {
		return nil, err
	}
	return &transporte, nil
}

// Update modifies an existing vehicle.
func (t *TransportesClient) Update(ctx context.Context, id string, in TransporteUpdate) (*Transporte, error) {
	var transporte Transporte
	_, err := t.client.http.Request(thttp.MethodPut, t.client.url(t.endpoint, id), in,
		thttp.WithContext(ctx), thttp.WithResponse(&transporte))
	if err != nil {
		return nil, err
	}
	return &transporte, nil
}

// Delete removes a vehicle.
func (t *TransportesClient) Delete(ctx context.Context, id string) error {
	_, err := t.client.http.Request(thttp.MethodDelete, t.client.url(t.endpoint, id), nil,
		thttp.WithContext(ctx))
	return err
}
