package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicProjectionNeverCarriesPassword(t *testing.T) {
	u := &User{
		ID:       "u1",
		Name:     "Alice",
		Email:    "a@b.c",
		Password: "$2a$10$somethingsecret",
		Role:     RoleMother,
	}

	raw, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "somethingsecret")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"email":"a@b.c"`)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleMother))
	assert.True(t, ValidRole(RoleDoctor))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}
