package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — заказ или позиция отсутствуют в источнике.
	ErrNotFound = errors.New("not found")
	// ErrGateway — сбой транспорта или разбора ответа шлюза.
	ErrGateway = errors.New("gateway error")
	// ErrInvalidPayload — ответ API не соответствует контракту.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnknownResource — источник не зарегистрирован.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrCanceled — операция отменена (CancelAllQueries или смена источника).
	ErrCanceled = errors.New("operation canceled")
)

// FetchError — ошибка чтения коллекции заказов.
type FetchError struct {
	Resource Resource
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch orders (resource=%s): %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError — ошибка удаления заказа или позиции.
type MutationError struct {
	Op       string
	Resource Resource
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s (resource=%s): %v", e.Op, e.Resource, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
