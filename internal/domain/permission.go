package domain

import (
	"math/bits"
	"strings"
)

// Permission is a bitmask of guarded resource groups.
type Permission uint64

// Permission bits. The bit numbers match permisos.bit in the database.
const (
	PermCatalogos Permission = 1 << iota
	PermClientes
	PermCitas
	PermEncuestas
	PermPagos
	PermRoles
	PermUsuarios
	PermNotificaciones
)

// AllPermissions grants every guarded group.
const AllPermissions = PermCatalogos | PermClientes | PermCitas | PermEncuestas |
	PermPagos | PermRoles | PermUsuarios | PermNotificaciones

// MaxPermissionBit is the highest bit a permisos row may use.
const MaxPermissionBit = 62

var permissionNames = map[Permission]string{
	PermCatalogos:      "catalogos",
	PermClientes:       "clientes",
	PermCitas:          "citas",
	PermEncuestas:      "encuestas",
	PermPagos:          "pagos",
	PermRoles:          "roles",
	PermUsuarios:       "usuarios",
	PermNotificaciones: "notificaciones",
}

// Has reports whether every bit of required is set.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// Names lists the known group names set in p, lowest bit first.
func (p Permission) Names() []string {
	names := make([]string, 0, bits.OnesCount64(uint64(p)))
	for rest := uint64(p); rest != 0; rest &= rest - 1 {
		bit := Permission(rest & -rest)
		if name, ok := permissionNames[bit]; ok {
			names = append(names, name)
		}
	}
	return names
}

// String joins the group names with commas.
func (p Permission) String() string {
	return strings.Join(p.Names(), ",")
}

// PermissionFromBit builds a single-bit mask.
func PermissionFromBit(bit int) (Permission, error) {
	if bit < 0 || bit > MaxPermissionBit {
		return 0, NewValidationError("bit", "must be between 0 and 62", ErrOutOfRange)
	}
	return Permission(1) << uint(bit), nil
}

// PermissionRow is a permisos catalog entry.
type PermissionRow struct {
	ID      int64  `json:"id"`
	Nombre  string `json:"nombre"`
	Clave   string `json:"clave"`
	Bit     int    `json:"bit"`
	Estatus Status `json:"estatus"`
}

// EntityStatus returns the soft-delete flag.
func (p *PermissionRow) EntityStatus() Status { return p.Estatus }

// Mask returns the single-bit mask of the row.
func (p *PermissionRow) Mask() Permission {
	mask, err := PermissionFromBit(p.Bit)
	if err != nil {
		return 0
	}
	return mask
}
