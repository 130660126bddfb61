package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"noteflow/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	args := m.Called(ctx, filePath)
	return args.String(0), args.Error(1)
}

// MockSessionUnderstander is a mock implementation of port.SessionUnderstander.
type MockSessionUnderstander struct {
	mock.Mock
}

func (m *MockSessionUnderstander) ExtractSessions(ctx context.Context, input port.UnderstandInput) (*port.UnderstandOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UnderstandOutput), args.Error(1)
}

// MockDocumentCategorizer is a mock implementation of port.DocumentCategorizer.
type MockDocumentCategorizer struct {
	mock.Mock
}

func (m *MockDocumentCategorizer) Categorize(ctx context.Context, text string) (*port.Categorization, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Categorization), args.Error(1)
}
