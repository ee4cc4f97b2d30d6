package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/proposaldesk/docstore/internal/apperr"
	"github.com/proposaldesk/docstore/internal/model"
	"github.com/proposaldesk/docstore/internal/testutil"
)

type userServiceMocks struct {
	users     *MockUserStore
	tokens    *MockTokenStore
	provision *MockProvisionStore
	dirs      *MockDirectoryStore
	cascade   *MockCascadeStore
	storage   *MockStorage
	cache     *MockStateCache
	ids       *MockIdentifierService
	legal     *MockLegalEntityRemover
}

func newUserService(m *userServiceMocks) *User {
	log := testutil.MakeNoopLogger()
	dirSvc := NewDirectory(m.dirs, m.users, m.ids, m.storage, log)
	return NewUser(m.users, m.tokens, m.provision, m.dirs, dirSvc, m.cascade, m.storage, m.cache, m.ids, m.legal, log)
}

func newUserServiceMocks() *userServiceMocks {
	return &userServiceMocks{
		users:     &MockUserStore{},
		tokens:    &MockTokenStore{},
		provision: &MockProvisionStore{},
		dirs:      &MockDirectoryStore{},
		cascade:   &MockCascadeStore{},
		storage:   &MockStorage{},
		cache:     &MockStateCache{},
		ids:       &MockIdentifierService{},
		legal:     &MockLegalEntityRemover{},
	}
}

func (m *userServiceMocks) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.tokens.AssertExpectations(t)
	m.provision.AssertExpectations(t)
	m.dirs.AssertExpectations(t)
	m.cascade.AssertExpectations(t)
	m.storage.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.ids.AssertExpectations(t)
	m.legal.AssertExpectations(t)
}

func TestUser_Create(t *testing.T) {
	t.Run("provisions account rows in one write after the storage user", func(t *testing.T) {
		m := newUserServiceMocks()

		m.ids.On("Mint", mock.Anything, model.KindUser, 1).Return([]string{"u-1"}, nil)
		m.users.On("ExistsLogin", mock.Anything, "alice").Return(false, nil)
		m.storage.On("CreateUser", mock.Anything, "aliceu-1", "pw12345678").Return(nil)
		m.tokens.On("ExistsValue", mock.Anything, mock.Anything).Return(false, nil)
		m.ids.On("Mint", mock.Anything, model.KindDirectory, 1).Return([]string{"root-1"}, nil)
		m.provision.On("CreateUserData", mock.Anything, mock.MatchedBy(func(data model.NewUserData) bool {
			return data.TokenValue != "" &&
				data.Account.UUID == "u-1" &&
				data.Account.Login == "alice" &&
				data.Account.Privilege == model.PrivilegeClient &&
				data.Account.Active &&
				data.Account.S3Login == "aliceu-1" &&
				data.RootDir.UUID == "root-1" &&
				data.RootDir.ParentUUID == nil &&
				data.RootDir.Path == "aliceu-1/root-1" &&
				data.RootDir.Type == model.DirectoryTypeUserRoot &&
				data.RootDir.OwnerUUID != nil && *data.RootDir.OwnerUUID == "u-1" &&
				data.RootDir.Visible
		})).Return(
			model.Account{ID: 5, UUID: "u-1", Login: "alice", Privilege: model.PrivilegeClient, S3Login: "aliceu-1"},
			model.Token{ID: 9, Value: "tok-1", Active: true},
			model.Directory{ID: 20, UUID: "root-1", Path: "aliceu-1/root-1"},
			nil,
		)

		service := newUserService(m)

		desc, err := service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "pw12345678",
			Privilege: model.PrivilegeClient,
		})
		require.NoError(t, err)
		assert.Equal(t, "u-1", desc.UserUUID)
		assert.Equal(t, "tok-1", desc.Token)
		assert.Equal(t, "root-1", desc.RootDirUUID)
		assert.Equal(t, "aliceu-1", desc.S3Login)

		m.assertExpectations(t)
	})

	t.Run("provisioning conflict maps to 409", func(t *testing.T) {
		m := newUserServiceMocks()

		m.ids.On("Mint", mock.Anything, model.KindUser, 1).Return([]string{"u-1"}, nil)
		m.users.On("ExistsLogin", mock.Anything, "alice").Return(false, nil)
		m.storage.On("CreateUser", mock.Anything, "aliceu-1", "pw12345678").Return(nil)
		m.tokens.On("ExistsValue", mock.Anything, mock.Anything).Return(false, nil)
		m.ids.On("Mint", mock.Anything, model.KindDirectory, 1).Return([]string{"root-1"}, nil)
		m.provision.On("CreateUserData", mock.Anything, mock.Anything).
			Return(model.Account{}, model.Token{}, model.Directory{}, model.ErrConflict)

		service := newUserService(m)

		_, err := service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "pw12345678",
			Privilege: model.PrivilegeClient,
		})
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)

		m.assertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		service := newUserService(newUserServiceMocks())

		_, err := service.Create(context.Background(), clientPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "pw12345678",
			Privilege: model.PrivilegeClient,
		})
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	})

	t.Run("admin privilege cannot be granted", func(t *testing.T) {
		service := newUserService(newUserServiceMocks())

		_, err := service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "pw12345678",
			Privilege: model.PrivilegeAdmin,
		})
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
	})

	t.Run("short login and password are rejected", func(t *testing.T) {
		service := newUserService(newUserServiceMocks())

		_, err := service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "al",
			Password:  "pw12345678",
			Privilege: model.PrivilegeClient,
		})
		require.Error(t, err)

		_, err = service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "short",
			Privilege: model.PrivilegeClient,
		})
		require.Error(t, err)
	})

	t.Run("taken login conflicts", func(t *testing.T) {
		m := newUserServiceMocks()
		m.ids.On("Mint", mock.Anything, model.KindUser, 1).Return([]string{"u-1"}, nil)
		m.users.On("ExistsLogin", mock.Anything, "alice").Return(true, nil)

		service := newUserService(m)

		_, err := service.Create(context.Background(), adminPrincipal(), CreateUserParams{
			Login:     "alice",
			Password:  "pw12345678",
			Privilege: model.PrivilegeClient,
		})
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})
}

func TestUser_Authenticate(t *testing.T) {
	tests := []struct {
		name      string
		login     string
		password  string
		mockSetup func(*userServiceMocks)
		wantToken string
		wantRoot  string
		wantKind  apperr.Kind
	}{
		{
			name:     "valid credentials",
			login:    "alice",
			password: "pw12345678",
			mockSetup: func(m *userServiceMocks) {
				m.users.On("GetByLogin", mock.Anything, "alice").
					Return(model.Account{ID: 5, UUID: "u-1", TokenID: 9, Login: "alice", Password: "pw12345678", Privilege: model.PrivilegeClient, Active: true}, nil)
				m.tokens.On("GetByID", mock.Anything, int64(9)).
					Return(model.Token{ID: 9, Value: "tok-1", Active: true}, nil)
				m.dirs.On("GetRootByOwner", mock.Anything, "u-1").
					Return(model.Directory{UUID: "root-1"}, nil)
				m.users.On("UpdateLastAuth", mock.Anything, int64(5), mock.Anything).
					Return(nil)
			},
			wantToken: "tok-1",
			wantRoot:  "root-1",
		},
		{
			name:     "wrong password",
			login:    "alice",
			password: "wrong",
			mockSetup: func(m *userServiceMocks) {
				m.users.On("GetByLogin", mock.Anything, "alice").
					Return(model.Account{Login: "alice", Password: "pw12345678", Active: true}, nil)
			},
			wantKind: apperr.KindUnauthenticated,
		},
		{
			name:     "unknown login",
			login:    "nobody",
			password: "pw12345678",
			mockSetup: func(m *userServiceMocks) {
				m.users.On("GetByLogin", mock.Anything, "nobody").
					Return(model.Account{}, model.ErrNotFound)
			},
			wantKind: apperr.KindUnauthenticated,
		},
		{
			name:     "inactive account",
			login:    "alice",
			password: "pw12345678",
			mockSetup: func(m *userServiceMocks) {
				m.users.On("GetByLogin", mock.Anything, "alice").
					Return(model.Account{Login: "alice", Password: "pw12345678", Active: false}, nil)
			},
			wantKind: apperr.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newUserServiceMocks()
			tt.mockSetup(m)

			service := newUserService(m)

			result, err := service.Authenticate(context.Background(), tt.login, tt.password)

			if tt.wantKind != "" {
				require.Error(t, err)
				appErr, ok := apperr.AsError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKind, appErr.Kind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, result.Token)
				assert.Equal(t, tt.wantRoot, result.RootDirUUID)
			}

			m.assertExpectations(t)
		})
	}
}

func TestUser_Delete(t *testing.T) {
	t.Run("cascades with documents", func(t *testing.T) {
		m := newUserServiceMocks()

		victim := model.Account{ID: 6, UUID: "u-2", Login: "bob", Privilege: model.PrivilegeClient, S3Login: "bobu-2"}
		victimOwner := "u-2"

		m.users.On("GetByUUID", mock.Anything, "u-2").Return(victim, nil)
		m.dirs.On("GetRootsByOwners", mock.Anything, []string{"u-2"}).
			Return([]model.Directory{{UUID: "root-2", Path: "bobu-2/root-2", OwnerUUID: &victimOwner}}, nil)
		m.legal.On("RemoveByUser", mock.Anything, "u-2").Return(nil)

		// Root soft-delete.
		m.dirs.On("GetByUUID", mock.Anything, "root-2").
			Return(model.Directory{UUID: "root-2", Path: "bobu-2/root-2", OwnerUUID: &victimOwner}, nil)
		m.dirs.On("SoftDelete", mock.Anything, "root-2", "admin-uuid", mock.Anything).Return(nil)
		m.storage.On("DeletePrefix", mock.Anything, "bobu-2/root-2").Return(nil)

		m.cascade.On("DeleteUserData", mock.Anything, []model.Account{victim}).Return(nil)
		m.storage.On("RemoveUser", mock.Anything, "bobu-2").Return(nil)

		service := newUserService(m)

		err := service.Delete(context.Background(), adminPrincipal(), nil, []string{"u-2"}, true)
		require.NoError(t, err)

		m.assertExpectations(t)
	})

	t.Run("legal-entity failure does not block the cascade", func(t *testing.T) {
		m := newUserServiceMocks()

		victim := model.Account{ID: 6, UUID: "u-2", Login: "bob", Privilege: model.PrivilegeClient, S3Login: "bobu-2"}

		m.users.On("GetByUUID", mock.Anything, "u-2").Return(victim, nil)
		m.dirs.On("GetRootsByOwners", mock.Anything, []string{"u-2"}).
			Return([]model.Directory{}, nil)
		m.legal.On("RemoveByUser", mock.Anything, "u-2").
			Return(errors.New("legal service down"))
		m.cascade.On("DeleteUserData", mock.Anything, []model.Account{victim}).Return(nil)
		m.storage.On("RemoveUser", mock.Anything, "bobu-2").Return(nil)

		service := newUserService(m)

		err := service.Delete(context.Background(), adminPrincipal(), nil, []string{"u-2"}, false)
		require.NoError(t, err)

		m.assertExpectations(t)
	})

	t.Run("unknown target mutates nothing", func(t *testing.T) {
		m := newUserServiceMocks()
		m.users.On("GetByUUID", mock.Anything, "ghost").
			Return(model.Account{}, model.ErrNotFound)

		service := newUserService(m)

		err := service.Delete(context.Background(), adminPrincipal(), nil, []string{"ghost"}, true)
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)

		// No cascade, no storage teardown.
		m.assertExpectations(t)
	})

	t.Run("admin targets are refused", func(t *testing.T) {
		m := newUserServiceMocks()
		m.users.On("GetByUUID", mock.Anything, "u-admin").
			Return(model.Account{ID: 1, UUID: "u-admin", Login: "root", Privilege: model.PrivilegeAdmin}, nil)

		service := newUserService(m)

		err := service.Delete(context.Background(), adminPrincipal(), nil, []string{"u-admin"}, false)
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	})

	t.Run("non-admin caller is forbidden", func(t *testing.T) {
		service := newUserService(newUserServiceMocks())

		err := service.Delete(context.Background(), clientPrincipal(), nil, []string{"u-2"}, false)
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	})

	t.Run("duplicate identifiers collapse to one account", func(t *testing.T) {
		m := newUserServiceMocks()

		victim := model.Account{ID: 6, UUID: "u-2", Login: "bob", Privilege: model.PrivilegeClient, S3Login: "bobu-2"}

		m.users.On("GetByTokenValue", mock.Anything, "tok-2").Return(victim, nil)
		m.users.On("GetByUUID", mock.Anything, "u-2").Return(victim, nil)
		m.dirs.On("GetRootsByOwners", mock.Anything, []string{"u-2"}).
			Return([]model.Directory{}, nil)
		m.legal.On("RemoveByUser", mock.Anything, "u-2").Return(nil).Once()
		m.cascade.On("DeleteUserData", mock.Anything, []model.Account{victim}).Return(nil)
		m.storage.On("RemoveUser", mock.Anything, "bobu-2").Return(nil).Once()

		service := newUserService(m)

		err := service.Delete(context.Background(), adminPrincipal(), []string{"tok-2"}, []string{"u-2"}, false)
		require.NoError(t, err)

		m.assertExpectations(t)
	})
}

func TestUser_ClientState(t *testing.T) {
	t.Run("non-admin reads own state", func(t *testing.T) {
		m := newUserServiceMocks()
		m.cache.On("Get", mock.Anything, "client_state:client-uuid").
			Return([]byte(`{"theme":"dark"}`), int64(120), nil)

		service := newUserService(m)

		value, ttl, err := service.GetClientState(context.Background(), clientPrincipal(), "")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"theme":"dark"}`), value)
		assert.Equal(t, int64(120), ttl)
	})

	t.Run("non-admin may not read another user's state", func(t *testing.T) {
		service := newUserService(newUserServiceMocks())

		_, _, err := service.GetClientState(context.Background(), clientPrincipal(), "someone-else")
		require.Error(t, err)
		appErr, ok := apperr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	})

	t.Run("admin reads any key", func(t *testing.T) {
		m := newUserServiceMocks()
		m.cache.On("Get", mock.Anything, "client_state:u-2").
			Return([]byte(nil), model.TTLMissing, nil)

		service := newUserService(m)

		value, ttl, err := service.GetClientState(context.Background(), adminPrincipal(), "u-2")
		require.NoError(t, err)
		assert.Nil(t, value)
		assert.Equal(t, model.TTLMissing, ttl)
	})

	t.Run("write with ttl uses setex", func(t *testing.T) {
		m := newUserServiceMocks()
		m.cache.On("SetEx", mock.Anything, "client_state:client-uuid", 30*time.Second, []byte("blob")).
			Return(nil)

		service := newUserService(m)

		err := service.RecordClientState(context.Background(), clientPrincipal(), "", []byte("blob"), 30)
		require.NoError(t, err)

		m.assertExpectations(t)
	})

	t.Run("write without ttl uses set", func(t *testing.T) {
		m := newUserServiceMocks()
		m.cache.On("Set", mock.Anything, "client_state:client-uuid", []byte("blob")).
			Return(nil)

		service := newUserService(m)

		err := service.RecordClientState(context.Background(), clientPrincipal(), "", []byte("blob"), 0)
		require.NoError(t, err)

		m.assertExpectations(t)
	})
}
