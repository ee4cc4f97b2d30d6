package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/proposaldesk/docstore/internal/model"
)

// MockTokenStore mocks the TokenStore interface
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Create(ctx context.Context, value string) (model.Token, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *MockTokenStore) GetByID(ctx context.Context, id int64) (model.Token, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *MockTokenStore) GetByValue(ctx context.Context, value string) (model.Token, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *MockTokenStore) ExistsValue(ctx context.Context, value string) (bool, error) {
	args := m.Called(ctx, value)
	return args.Bool(0), args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByLogin(ctx context.Context, login string) (model.Account, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockUserStore) GetByUUID(ctx context.Context, uuid string) (model.Account, error) {
	args := m.Called(ctx, uuid)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockUserStore) GetByTokenID(ctx context.Context, tokenID int64) (model.Account, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockUserStore) GetByTokenValue(ctx context.Context, value string) (model.Account, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockUserStore) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	args := m.Called(ctx, uuid)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ExistsLogin(ctx context.Context, login string) (bool, error) {
	args := m.Called(ctx, login)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, params model.UpdateAccountParams) (model.Account, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockUserStore) UpdateLastAuth(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserStore) List(ctx context.Context, query model.ListQuery) ([]model.Account, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Account), args.Get(1).(int64), args.Error(2)
}

// MockProvisionStore mocks the ProvisionStore interface
type MockProvisionStore struct {
	mock.Mock
}

func (m *MockProvisionStore) CreateUserData(ctx context.Context, data model.NewUserData) (model.Account, model.Token, model.Directory, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(model.Account), args.Get(1).(model.Token), args.Get(2).(model.Directory), args.Error(3)
}

// MockDirectoryStore mocks the DirectoryStore interface
type MockDirectoryStore struct {
	mock.Mock
}

func (m *MockDirectoryStore) Create(ctx context.Context, dir model.Directory) (model.Directory, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(model.Directory), args.Error(1)
}

func (m *MockDirectoryStore) GetByUUID(ctx context.Context, uuid string) (model.Directory, error) {
	args := m.Called(ctx, uuid)
	return args.Get(0).(model.Directory), args.Error(1)
}

func (m *MockDirectoryStore) GetByUUIDs(ctx context.Context, uuids []string) ([]model.Directory, error) {
	args := m.Called(ctx, uuids)
	return args.Get(0).([]model.Directory), args.Error(1)
}

func (m *MockDirectoryStore) GetRootByOwner(ctx context.Context, ownerUUID string) (model.Directory, error) {
	args := m.Called(ctx, ownerUUID)
	return args.Get(0).(model.Directory), args.Error(1)
}

func (m *MockDirectoryStore) GetRootsByOwners(ctx context.Context, ownerUUIDs []string) ([]model.Directory, error) {
	args := m.Called(ctx, ownerUUIDs)
	return args.Get(0).([]model.Directory), args.Error(1)
}

func (m *MockDirectoryStore) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	args := m.Called(ctx, uuid)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectoryStore) SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error {
	args := m.Called(ctx, uuid, visible, byUUID, at)
	return args.Error(0)
}

func (m *MockDirectoryStore) SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error {
	args := m.Called(ctx, uuid, byUUID, at)
	return args.Error(0)
}

func (m *MockDirectoryStore) List(ctx context.Context, query model.ListQuery) ([]model.Directory, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Directory), args.Get(1).(int64), args.Error(2)
}

// MockDocumentStore mocks the DocumentStore interface
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockDocumentStore) GetByUUID(ctx context.Context, uuid string) (model.Document, error) {
	args := m.Called(ctx, uuid)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockDocumentStore) GetByUUIDs(ctx context.Context, uuids []string) ([]model.Document, error) {
	args := m.Called(ctx, uuids)
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentStore) ExistsUUID(ctx context.Context, uuid string) (bool, error) {
	args := m.Called(ctx, uuid)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) ExistsName(ctx context.Context, directoryUUID, name string) (bool, error) {
	args := m.Called(ctx, directoryUUID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) SetVisibility(ctx context.Context, uuid string, visible bool, byUUID *string, at *time.Time) error {
	args := m.Called(ctx, uuid, visible, byUUID, at)
	return args.Error(0)
}

func (m *MockDocumentStore) SoftDelete(ctx context.Context, uuid string, byUUID string, at time.Time) error {
	args := m.Called(ctx, uuid, byUUID, at)
	return args.Error(0)
}

func (m *MockDocumentStore) List(ctx context.Context, query model.ListQuery) ([]model.Document, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Document), args.Get(1).(int64), args.Error(2)
}

// MockCascadeStore mocks the CascadeStore interface
type MockCascadeStore struct {
	mock.Mock
}

func (m *MockCascadeStore) DeleteUserData(ctx context.Context, accounts []model.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, prefix, name string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, prefix, name, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, path string) (io.ReadCloser, model.ObjectInfo, error) {
	args := m.Called(ctx, path)
	var stream io.ReadCloser
	if args.Get(0) != nil {
		stream = args.Get(0).(io.ReadCloser)
	}
	return stream, args.Get(1).(model.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Stat(ctx context.Context, path string) (model.ObjectInfo, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(model.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockStorage) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func (m *MockStorage) CreateUser(ctx context.Context, login, password string) error {
	args := m.Called(ctx, login, password)
	return args.Error(0)
}

func (m *MockStorage) RemoveUser(ctx context.Context, login string) error {
	args := m.Called(ctx, login)
	return args.Error(0)
}

// MockStateCache mocks the StateCache interface
type MockStateCache struct {
	mock.Mock
}

func (m *MockStateCache) Get(ctx context.Context, key string) ([]byte, int64, error) {
	args := m.Called(ctx, key)
	var value []byte
	if args.Get(0) != nil {
		value = args.Get(0).([]byte)
	}
	return value, args.Get(1).(int64), args.Error(2)
}

func (m *MockStateCache) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStateCache) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	args := m.Called(ctx, key, ttl, value)
	return args.Error(0)
}

// MockIdentifierService mocks the IdentifierService interface
type MockIdentifierService struct {
	mock.Mock
}

func (m *MockIdentifierService) Mint(ctx context.Context, kind model.EntityKind, n int) ([]string, error) {
	args := m.Called(ctx, kind, n)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockIdentifierService) Exists(ctx context.Context, kind model.EntityKind, id string) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

// MockLegalEntityRemover mocks the LegalEntityRemover interface
type MockLegalEntityRemover struct {
	mock.Mock
}

func (m *MockLegalEntityRemover) RemoveByUser(ctx context.Context, userUUID string) error {
	args := m.Called(ctx, userUUID)
	return args.Error(0)
}
