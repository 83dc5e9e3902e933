package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"codeberg.org/snonux/neoanki/internal/table"
)

// MockTranslator is a mock for translation.Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, word string) (string, error) {
	args := m.Called(ctx, word)
	return args.String(0), args.Error(1)
}

// MockStore is a mock for the Load/Save pair of backup.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load() (table.Set, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(table.Set), args.Bool(1)
}

func (m *MockStore) Save(set table.Set) error {
	args := m.Called(set)
	return args.Error(0)
}

func (m *MockStore) SaveValue(v any) error {
	args := m.Called(v)
	return args.Error(0)
}
