package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docschema/internal/domain"
	"docschema/internal/service"
)

// MockSchemaService is a mock implementation of service.SchemaService.
type MockSchemaService struct {
	mock.Mock
}

func (m *MockSchemaService) Save(ctx context.Context, raw []byte, actor string) (*service.SaveSchemaResult, error) {
	args := m.Called(ctx, raw, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveSchemaResult), args.Error(1)
}

func (m *MockSchemaService) Get(ctx context.Context, schemaID string) (*domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaService) GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaService) ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaService) List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error) {
	args := m.Called(ctx, includeInactive, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredSchema), args.Int(1), args.Error(2)
}

func (m *MockSchemaService) Delete(ctx context.Context, schemaID string) error {
	args := m.Called(ctx, schemaID)
	return args.Error(0)
}

func (m *MockSchemaService) Restore(ctx context.Context, schemaID string) error {
	args := m.Called(ctx, schemaID)
	return args.Error(0)
}

func (m *MockSchemaService) JSONSchema(ctx context.Context, schemaID, version string) ([]byte, error) {
	args := m.Called(ctx, schemaID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
