package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"popforge/internal/model"
)

type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, subject, question string, pdfData []byte) (*model.GenerationResult, error) {
	args := m.Called(ctx, subject, question, pdfData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationResult), args.Error(1)
}
