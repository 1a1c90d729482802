package api

import (
	"context"

	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Empleado is a staff member.
type Empleado struct {
	ID              string `json:"id_empleado"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Documento       string `json:"documento"`
	Email           string `json:"email"`
	Rol             string `json:"rol"`
	Estado          string `json:"estado"`
	FechaRegistro   string `json:"fecha_registro"`
	FechaActualizar string `json:"fecha_actualizar"`
}

// EmpleadoCreate is the payload for registering a staff member.
type EmpleadoCreate struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Documento string `json:"documento"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
}

// EmpleadoUpdate carries the fields to change; nil fields are left untouched.
type EmpleadoUpdate struct {
	Nombre   *string `json:"nombre,omitempty"`
	Apellido *string `json:"apellido,omitempty"`
	Email    *string `json:"email,omitempty"`
	Rol      *string `json:"rol,omitempty"`
	Estado   *string `json:"estado,omitempty"`
}

// EmpleadosClient talks to the staff endpoints.
type EmpleadosClient struct {
	client   *Client
	endpoint string
}

// List returns all staff members.
func (e *EmpleadosClient) List(ctx context.Context) ([]Empleado, error) {
	var empleados []Empleado
	_, err := e.client.http.Request(thttp.MethodGet, e.client.url(e.endpoint), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&empleados))
	if err != nil {
		return nil, err
	}
	return empleados, nil
}

// Get fetches a staff member by UUID.
func (e *EmpleadosClient) Get(ctx context.Context, id string) (*Empleado, error) {
	var empleado Empleado
	_, err := e.client.http.Request(thttp.MethodGet, e.client.url(e.endpoint, id), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&empleado))
	if err != nil {
		return nil, err
	}
	return &empleado, nil
}

// Create registers a new staff member.
func (e *EmpleadosClient) Create(ctx context.Context, in EmpleadoCreate) (*Empleado, error) {
	var empleado Empleado
	_, err := e.client.http.Request(thttp.MethodPost, e.client.url(e.endpoint), in,
		thttp.WithContext(ctx), thttp.WithResponse(&empleado))
	if err != nil {
		return nil, err
	}
	return &empleado, nil
}

// Update modifies an existing staff member.
func (e *EmpleadosClient) Update(ctx context.Context, id string, in EmpleadoUpdate) (*Empleado, error) {
	var empleado Empleado
	_, err := e.client.http.Request(thttp.MethodPut, e.client.url(e.endpoint, id), in,
		thttp.WithContext(ctx), thttp.WithResponse(&empleado))
	if err != nil {
		return nil, err
	}
	return &empleado, nil
}

// Delete removes a staff member.
func (e *EmpleadosClient) Delete(ctx context.Context, id string) error {
	_, err := e.client.http.Request(thttp.MethodDelete, e.client.url(e.endpoint, id), nil,
		thttp.WithContext(ctx))
	return err
}
