package mocks

import (
	"context"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockLoader is a mock implementation of loader.Loader interface.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context) (*models.Project, error) {
	args := m.Called(ctx)

	project, _ := args.Get(0).(*models.Project)

	return project, args.Error(1)
}

func (m *MockLoader) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockLoader) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
