package conversation

import "context"

// Store хранилище состояний диалогов по идентификатору собеседника
type Store interface {
	// Load возвращает состояние; ok=false, если состояния нет или оно истекло
	Load(ctx context.Context, identity string) (state *State, ok bool, err error)
	Save(ctx context.Context, identity string, state *State) error
	Delete(ctx context.Context, identity string) error
}
