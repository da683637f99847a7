package model

import "errors"

// Ошибки хранилища, которые вызывающий код обязан различать
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("slot already booked")
)
