package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context, source, workDir string) (string, error) {
	args := m.Called(ctx, source, workDir)
	if f, ok := args.Get(0).(func(ctx context.Context, source, workDir string) string); ok {
		return f(ctx, source, workDir), args.Error(1)
	}
	return args.String(0), args.Error(1)
}
