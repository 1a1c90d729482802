package auth

import "slices"

// Rol is the authorization role attached to a principal.
type Rol struct {
	ID          int      `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion,omitempty"`
	Permisos    []string `json:"permisos"`
}

// Principal is the authenticated user's identity as returned by the backend.
type Principal struct {
	ID        string `json:"id_usuario"`
	IDRol     int    `json:"id_rol"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Documento string `json:"documento"`
	Email     string `json:"email"`
	Rol       *Rol   `json:"rol,omitempty"`
}

// HasPermission reports whether the principal's role grants the permission.
func (p *Principal) HasPermission(permission string) bool {
	if p == nil || p.Rol == nil {
		return false
	}
	return slices.Contains(p.Rol.Permisos, permission)
}

// HasRole reports whether the principal's role name is among the given names.
func (p *Principal) HasRole(names ...string) bool {
	if p == nil || p.Rol == nil {
		return false
	}
	return slices.Contains(names, p.Rol.Nombre)
}

// Permission identifiers understood by the backend.
const (
	PermUsuariosLeer     = "usuarios:leer"
	PermUsuariosCrear    = "usuarios:crear"
	PermUsuariosEditar   = "usuarios:editar"
	PermUsuariosEliminar = "usuarios:eliminar"

	PermTarjetasLeer     = "tarjetas:leer"
	PermTarjetasCrear    = "tarjetas:crear"
	PermTarjetasEditar   = "tarjetas:editar"
	PermTarjetasEliminar = "tarjetas:eliminar"
	PermTarjetasRecargar = "tarjetas:recargar"
	PermTarjetasBloquear = "tarjetas:bloquear"

	PermTransportesLeer          = "transportes:leer"
	PermTransportesCrear         = "transportes:crear"
	PermTransportesEditar        = "transportes:editar"
	PermTransportesEliminar      = "transportes:eliminar"
	PermTransportesMantenimiento = "transportes:mantenimiento"

	PermEmpleadosLeer     = "empleados:leer"
	PermEmpleadosCrear    = "empleados:crear"
	PermEmpleadosEditar   = "empleados:editar"
	PermEmpleadosEliminar = "empleados:eliminar"

	PermReportesVer      = "reportes:ver"
	PermReportesExportar = "reportes:exportar"

	PermAdminConfiguracion = "admin:configuracion"
	PermAdminAuditoria     = "admin:auditoria"
	PermAdminRoles         = "admin:roles"
)

// Default role names seeded by the backend.
const (
	RoleSuperAdmin = "Super Administrador"
	RoleAdmin      = "Administrador"
	RoleOperador   = "Operador"
	RoleConductor  = "Conductor"
)
