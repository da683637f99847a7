package conversation

import (
	"context"
	"fmt"
	"time"
)

// Manager операции над состоянием диалога поверх Store
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock подменяет источник текущего времени
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Get возвращает состояние, создавая {MENU, []} для нового собеседника
func (m *Manager) Get(ctx context.Context, identity string) (*State, error) {
	state, ok, err := m.store.Load(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		state = NewState()
	}
	if state.History == nil {
		state.History = History{}
	}
	return state, nil
}

// Save сохраняет состояние целиком
func (m *Manager) Save(ctx context.Context, identity string, state *State) error {
	state.UpdatedAt = m.now()
	if err := m.store.Save(ctx, identity, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Reset отбрасывает состояние и возвращает новое начальное
func (m *Manager) Reset(ctx context.Context, identity string) (*State, error) {
	if err := m.store.Delete(ctx, identity); err != nil {
		return NewState(), fmt.Errorf("reset state: %w", err)
	}
	return NewState(), nil
}
