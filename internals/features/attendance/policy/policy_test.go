package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obra360_backend/internals/constants"
	"obra360_backend/internals/helpers/apperror"
)

func TestUnrestrictedRoles(t *testing.T) {
	assert.True(t, Caller{Role: constants.RoleAdmin}.Unrestricted())
	assert.True(t, Caller{Role: "supervisor"}.Unrestricted())
	assert.False(t, Caller{Role: constants.RoleOperario}.Unrestricted())
	assert.False(t, Caller{Role: "GUEST"}.Unrestricted())
	assert.False(t, Caller{}.Unrestricted())
}

func TestEffectivePersonFilter(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	t.Run("supervisor keeps requested filter", func(t *testing.T) {
		c := Caller{Role: constants.RoleSupervisor}
		assert.Nil(t, c.EffectivePersonFilter(nil))
		got := c.EffectivePersonFilter(&other)
		require.NotNil(t, got)
		assert.Equal(t, other, *got)
	})

	t.Run("operario pinned to own person", func(t *testing.T) {
		c := Caller{Role: constants.RoleOperario, PersonID: &own}
		got := c.EffectivePersonFilter(&other)
		require.NotNil(t, got)
		assert.Equal(t, own, *got)

		got = c.EffectivePersonFilter(nil)
		require.NotNil(t, got)
		assert.Equal(t, own, *got)
	})

	t.Run("operario without person matches nothing", func(t *testing.T) {
		c := Caller{Role: constants.RoleOperario}
		got := c.EffectivePersonFilter(nil)
		require.NotNil(t, got)
		assert.Equal(t, uuid.Nil, *got)
	})
}

func TestAuthorizePerson(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	assert.NoError(t, Caller{Role: constants.RoleAdmin}.AuthorizePerson(other))
	assert.NoError(t, Caller{Role: constants.RoleOperario, PersonID: &own}.AuthorizePerson(own))

	err := Caller{Role: constants.RoleOperario, PersonID: &own}.AuthorizePerson(other)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))

	err = Caller{Role: constants.RoleOperario}.AuthorizePerson(own)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))
}
