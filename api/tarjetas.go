package api

import (
	"context"
	"strconv"

	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Tarjeta is a fare card.
type Tarjeta struct {
	ID                 int     `json:"id_tarjeta"`
	IDUsuario          int     `json:"id_usuario"`
	Tipo               string  `json:"tipo_tarjeta"`
	Descuento          float64 `json:"descuento"`
	Numero             string  `json:"numero_tarjeta"`
	Saldo              float64 `json:"saldo"`
	Estado             string  `json:"estado"`
	FechaUltimaRecarga string  `json:"fecha_ultima_recarga"`
}

// TarjetaCreate is the payload for registering a fare card.
type TarjetaCreate struct {
	IDUsuario int     `json:"id_usuario"`
	Tipo      string  `json:"tipo_tarjeta"`
	Descuento float64 `json:"descuento"`
	Numero    string  `json:"numero_tarjeta"`
	Saldo     float64 `json:"saldo"`
}

// TarjetaUpdate carries the fields to change; nil fields are left untouched.
type TarjetaUpdate struct {
	Tipo      *string  `json:"tipo_tarjeta,omitempty"`
	Descuento *float64 `json:"descuento,omitempty"`
	Saldo     *float64 `json:"saldo,omitempty"`
	Estado    *string  `json:"estado,omitempty"`
}

// TarjetasClient talks to the fare card endpoints.
type TarjetasClient struct {
	client   *Client
	endpoint string
}

// List returns all fare cards.
func (t *TarjetasClient) List(ctx context.Context) ([]Tarjeta, error) {
	var tarjetas []Tarjeta
	_, err := t.client.http.Request(thttp.MethodGet, t.client.url(t.endpoint), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&tarjetas))
	if err != nil {
		return nil, err
	}
	return tarjetas, nil
}

// Get fetches a fare card by ID.
func (t *TarjetasClient) Get(ctx context.Context, id int) (*Tarjeta, error) {
	var tarjeta Tarjeta
	_, err := t.client.http.Request(thttp.MethodGet,
		t.client.url(t.endpoint, strconv.Itoa(id)), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&tarjeta))
	if err != nil {
		return nil, err
	}
	return &tarjeta, nil
}

// Create registers a new fare card.
func (t *TarjetasClient) Create(ctx context.Context, in TarjetaCreate) (*Tarjeta, error) {
	var tarjeta Tarjeta
	_, err := t.client.http.Request(thttp.MethodPost, t.client.url(t.endpoint), in,
		thttp.WithContext(ctx), thttp.WithResponse(&tarjeta))
	if err != nil {
		return nil, err
	}
	return &tarjeta, nil
}

// Update modifies an existing fare card.
func (t *TarjetasClient) Update(ctx context.Context, id int, in TarjetaUpdate) (*Tarjeta, error) {
	var tarjeta Tarjeta
	_, err := t.client.http.Request(thttp.MethodPut,
		t.client.url(t.endpoint, strconv.Itoa(id)), in,
		thttp.WithContext(ctx), thttp.WithResponse(&tarjeta))
	if err != nil {
		return nil, err
	}
	return &tarjeta, nil
}

// Delete removes a fare card.
func (t *TarjetasClient) Delete(ctx context.Context, id int) error {
	_, err := t.client.http.Request(thttp.MethodDelete,
		t.client.url(t.endpoint, strconv.Itoa(id)), nil,
		thttp.WithContext(ctx))
	return err
}
