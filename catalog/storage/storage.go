// Package storage provides loaders for the static menu artifact.
package storage

import (
	"context"
	"errors"
)

// MenuState is a source of raw menu JSON. The menu is loaded once at startup
// and never written back.
type MenuState interface {
	Load(ctx context.Context) ([]byte, error)
}

// TestMenuState is a simple in-memory implementation for testing.
type TestMenuState struct {
	data []byte
	err  error
}

func NewTestMenuState(data []byte) *TestMenuState {
	return &TestMenuState{data: data}
}

func NewTestMenuStateWithError() *TestMenuState {
	return &TestMenuState{err: errors.New("not found")}
}

func (t *TestMenuState) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
