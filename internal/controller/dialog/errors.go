package dialog

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
)

// ErrInternalState шаг достигнут без обязательных данных; диалог сбрасывается
var ErrInternalState = errors.New("internal conversation state error")

func missing(step conversation.Step, field string) error {
	return fmt.Errorf("%w: %s without %s", ErrInternalState, step, field)
}
