package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPublisher simula el publicador de eventos de dominio
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}
