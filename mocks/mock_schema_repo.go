package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docschema/internal/domain"
)

// MockSchemaRepo is a mock implementation of port.SchemaRepository.
type MockSchemaRepo struct {
	mock.Mock
}

func (m *MockSchemaRepo) Save(ctx context.Context, s *domain.StoredSchema) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSchemaRepo) GetLatest(ctx context.Context, schemaID string) (*domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaRepo) GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaRepo) ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredSchema), args.Error(1)
}

func (m *MockSchemaRepo) List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error) {
	args := m.Called(ctx, includeInactive, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredSchema), args.Int(1), args.Error(2)
}

func (m *MockSchemaRepo) SetActive(ctx context.Context, schemaID string, active bool) error {
	args := m.Called(ctx, schemaID, active)
	return args.Error(0)
}
