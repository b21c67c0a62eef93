package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermission_Has(t *testing.T) {
	t.Parallel()

	mask := PermCatalogos | PermCitas

	assert.True(t, mask.Has(PermCatalogos))
	assert.True(t, mask.Has(PermCatalogos|PermCitas))
	assert.False(t, mask.Has(PermPagos))
	assert.False(t, mask.Has(PermCitas|PermPagos))
	assert.True(t, AllPermissions.Has(PermNotificaciones|PermUsuarios))
}

func TestPermission_Names(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"catalogos", "citas", "pagos"}, (PermPagos | PermCatalogos | PermCitas).Names())
	assert.Equal(t, "", Permission(0).String())
	// Unknown bits are ignored
	assert.Equal(t, []string{"roles"}, (PermRoles | Permission(1)<<40).Names())
}

func TestPermissionFromBit(t *testing.T) {
	t.Parallel()

	mask, err := PermissionFromBit(2)
	assert.NoError(t, err)
	assert.Equal(t, PermCitas, mask)

	_, err = PermissionFromBit(63)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = PermissionFromBit(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestRole_Allows(t *testing.T) {
	t.Parallel()

	role := &Role{ID: 1, Nombre: "operador", Permisos: PermCitas | PermClientes, Estatus: StatusActive}
	assert.True(t, role.Allows(PermCitas))
	assert.False(t, role.Allows(PermUsuarios))

	deleted := &Role{ID: 2, Permisos: AllPermissions, Estatus: StatusDeleted}
	assert.False(t, deleted.Allows(PermCitas), "soft-deleted roles grant nothing")

	var missing *Role
	assert.False(t, missing.Allows(PermCitas))
}
