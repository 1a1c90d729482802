package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sistematransporte/transporte-go/auth"
	"github.com/sistematransporte/transporte-go/core/validator"
	"github.com/sistematransporte/transporte-go/errors"
	thttp "github.com/sistematransporte/transporte-go/transport/http"
)

// Usuario is a system user as returned by the backend. The fecha fields are
// ISO timestamps kept verbatim: the backend emits naive datetimes without an
// offset, which time.Time refuses to decode.
type Usuario struct {
	ID              string    `json:"id_usuario"`
	IDRol           int       `json:"id_rol"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	Documento       string    `json:"documento"`
	Email           string    `json:"email"`
	FechaRegistro   string    `json:"fecha_registro"`
	FechaActualizar string    `json:"fecha_actualizar"`
	Rol             *auth.Rol `json:"rol,omitempty"`
}

// UsuarioCreate is the payload for registering a user. IDRol is optional;
// the backend assigns its default role when absent.
type UsuarioCreate struct {
	IDRol      int    `json:"id_rol,omitempty"`
	Nombre     string `json:"nombre" validate:"required"`
	Apellido   string `json:"apellido" validate:"required"`
	Documento  string `json:"documento" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required,min=6"`
}

// UsuarioUpdate carries the fields to change; nil fields are left untouched.
type UsuarioUpdate struct {
	IDRol     *int    `json:"id_rol,omitempty"`
	Nombre    *string `json:"nombre,omitempty"`
	Apellido  *string `json:"apellido,omitempty"`
	Documento *string `json:"documento,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// UsuarioFilter narrows and paginates a user listing. Page and PageSize are
// translated to the backend's skip/limit parameters; Page starts at 1.
type UsuarioFilter struct {
	Rol      int
	Page     int
	PageSize int
}

// UsuariosClient talks to the user management endpoints.
type UsuariosClient struct {
	client   *Client
	endpoint string
}

// List returns users matching the filter. The backend answers with a plain
// array sliced by skip/limit.
func (u *UsuariosClient) List(ctx context.Context, filter UsuarioFilter) ([]Usuario, error) {
	query := make(map[string]string, 3)
	if filter.Rol > 0 {
		query["rol"] = strconv.Itoa(filter.Rol)
	}
	if filter.Page > 0 {
		pageSize := filter.PageSize
		if pageSize <= 0 {
			pageSize = 100
		}
		query["skip"] = strconv.Itoa((filter.Page - 1) * pageSize)
		query["limit"] = strconv.Itoa(pageSize)
	}

	var usuarios []Usuario
	_, err := u.client.http.Request(thttp.MethodGet, u.client.url(u.endpoint), nil,
		thttp.WithContext(ctx), thttp.WithQuery(query), thttp.WithResponse(&usuarios))
	if err != nil {
		return nil, err
	}
	return usuarios, nil
}

// GetByID fetches a user by its UUID.
func (u *UsuariosClient) GetByID(ctx context.Context, id string) (*Usuario, error) {
	var usuario Usuario
	_, err := u.client.http.Request(thttp.MethodGet, u.client.url(u.endpoint, id), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&usuario))
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// GetByDocumento fetches a user by identity document.
func (u *UsuariosClient) GetByDocumento(ctx context.Context, documento string) (*Usuario, error) {
	var usuario Usuario
	_, err := u.client.http.Request(thttp.MethodGet,
		u.client.url(u.endpoint, "documento", url.PathEscape(documento)), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&usuario))
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// GetByEmail fetches a user by email address.
func (u *UsuariosClient) GetByEmail(ctx context.Context, email string) (*Usuario, error) {
	var usuario Usuario
	_, err := u.client.http.Request(thttp.MethodGet,
		u.client.url(u.endpoint, "email", url.PathEscape(email)), nil,
		thttp.WithContext(ctx), thttp.WithResponse(&usuario))
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Create registers a new user. The payload is validated locally before the
// request is sent.
func (u *UsuariosClient) Create(ctx context.Context, in UsuarioCreate) (*Usuario, error) {
	if err := validator.Validate.Struct(in); err != nil {
		return nil, errors.BadRequest("%v", err)
	}

	var usuario Usuario
	_, err := u.client.http.Request(thttp.MethodPost, u.client.url(u.endpoint), in,
		thttp.WithContext(ctx), thttp.WithResponse(&usuario))
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Update modifies an existing user.
func (u *UsuariosClient) Update(ctx context.Context, id string, in UsuarioUpdate) (*Usuario, error) {
	var usuario Usuario
	_, err := u.client.http.Request(thttp.MethodPut, u.client.url(u.endpoint, id), in,
		thttp.WithContext(ctx), thttp.WithResponse(&usuario))
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Delete removes a user.
func (u *UsuariosClient) Delete(ctx context.Context, id string) error {
	_, err := u.client.http.Request(thttp.MethodDelete, u.client.url(u.endpoint, id), nil,
		thttp.WithContext(ctx))
	return err
}
