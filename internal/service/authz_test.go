package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/model"
)

func adminPrincipal() model.Principal {
	return model.Principal{UserID: 1, UserUUID: "admin-uuid", Privilege: model.PrivilegeAdmin}
}

func clientPrincipal() model.Principal {
	return model.Principal{UserID: 2, UserUUID: "client-uuid", RootDirUUID: "root-uuid", Privilege: model.PrivilegeClient}
}

func TestEnsureAdmin(t *testing.T) {
	assert.NoError(t, ensureAdmin(adminPrincipal()))

	err := ensureAdmin(clientPrincipal())
	require.Error(t, err)
	appErr, ok := apperr.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindForbidden, appErr.Kind)
}

func TestResolveOwner(t *testing.T) {
	tests := []struct {
		name      string
		principal model.Principal
		requested string
		want      string
		wantErr   bool
	}{
		{
			name:      "admin keeps explicit owner",
			principal: adminPrincipal(),
			requested: "someone-else",
			want:      "someone-else",
		},
		{
			name:      "admin keeps empty owner",
			principal: adminPrincipal(),
			requested: "",
			want:      "",
		},
		{
			name:      "non-admin gets own uuid substituted",
			principal: clientPrincipal(),
			requested: "",
			want:      "client-uuid",
		},
		{
			name:      "non-admin may name itself",
			principal: clientPrincipal(),
			requested: "client-uuid",
			want:      "client-uuid",
		},
		{
			name:      "non-admin naming another owner is forbidden",
			principal: clientPrincipal(),
			requested: "someone-else",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := resolveOwner(tt.principal, tt.requested)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperr.AsError(err)
				require.True(t, ok)
				assert.Equal(t, apperr.KindForbidden, appErr.Kind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, owner)
			}
		})
	}
}

func TestMayMutate(t *testing.T) {
	own := "client-uuid"
	foreign := "someone-else"

	assert.NoError(t, mayMutate(adminPrincipal(), &foreign))
	assert.NoError(t, mayMutate(adminPrincipal(), nil))
	assert.NoError(t, mayMutate(clientPrincipal(), &own))
	assert.Error(t, mayMutate(clientPrincipal(), &foreign))
	assert.Error(t, mayMutate(clientPrincipal(), nil))
}

func TestScopeListQuery(t *testing.T) {
	t.Run("admin query passes through", func(t *testing.T) {
		q, err := scopeListQuery(adminPrincipal(), model.ListQuery{
			OwnerUUID:      "someone-else",
			Visibility:     model.VisibilityAll,
			IncludeDeleted: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "someone-else", q.OwnerUUID)
		assert.Equal(t, model.VisibilityAll, q.Visibility)
		assert.True(t, q.IncludeDeleted)
	})

	t.Run("non-admin is forced to own visible rows", func(t *testing.T) {
		q, err := scopeListQuery(clientPrincipal(), model.ListQuery{
			IncludeDeleted: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "client-uuid", q.OwnerUUID)
		assert.Equal(t, model.VisibilityVisible, q.Visibility)
		assert.False(t, q.IncludeDeleted)
	})

	t.Run("non-admin asking for hidden rows gets 406", func(t *testing.T) {
		for _, visibility := range []model.Visibility{model.VisibilityInvisible, model.VisibilityAll} {
			_, err := scopeListQuery(clientPrincipal(), model.ListQuery{Visibility: visibility})
			require.Error(t, err)
			appErr, ok := apperr.AsError(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindNotAcceptable, appErr.Kind)
		}
	})

	t.Run("non-admin naming a foreign owner gets 403", func(t *testing.T) {
		_, err := scopeListQuery(clientPrincipal(), model.ListQuery{OwnerUUID: "someone-else"})
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	})
}
