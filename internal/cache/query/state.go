// Package query — кэш серверного состояния: записи по ключу (feature, resource),
// single-flight загрузка, инвалидация с перезапросом, отмена и учёт мутаций.
package query

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCanceled — операция отменена через Cancel/Remove/Close; в кэш она ничего не записала.
	ErrCanceled = errors.New("query canceled")
	// ErrClosed — клиент уже закрыт.
	ErrClosed = errors.New("query client closed")
	// ErrNoFetcher — для ключа не зарегистрирована функция загрузки.
	ErrNoFetcher = errors.New("query has no fetch function")
)

// Key — адрес записи. Записи с разными ключами не пересекаются.
type Key struct {
	Feature  string
	Resource string
}

func (k Key) String() string { return k.Feature + "/" + k.Resource }

// Status — фаза жизненного цикла данных записи.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State — неизменяемый снимок записи. Data разделяется между снимками и не должна изменяться.
type State struct {
	Data       any
	HasData    bool
	Status     Status
	Err        error
	IsFetching bool
	Mutating   int
	Stale      bool
	UpdatedAt  time.Time
	// Version растёт при каждом изменении любой записи клиента.
	Version uint64
}

// Processing — идёт загрузка или хотя бы одна мутация.
func (s State) Processing() bool { return s.IsFetching || s.Mutating > 0 }

// IsLoading — первая загрузка: данных ещё нет.
func (s State) IsLoading() bool { return s.Status == StatusLoading }

type (
	// FetchFunc загружает данные записи. ctx отменяется при отмене или вытеснении загрузки.
	FetchFunc func(ctx context.Context) (any, error)
	// MutateFunc выполняет изменение на стороне источника.
	MutateFunc func(ctx context.Context) error
	// Listener получает снимки по возрастанию Version, асинхронно.
	Listener func(State)
	// Unsubscribe снимает подписку; повторный вызов безопасен.
	Unsubscribe func()
	// Filter выбирает ключи для Cancel/Remove.
	Filter func(Key) bool
)

// All — все ключи.
func All() Filter { return func(Key) bool { return true } }

// ByFeature — все ресурсы одной фичи.
func ByFeature(feature string) Filter {
	return func(k Key) bool { return k.Feature == feature }
}

// ByKey — ровно один ключ.
func ByKey(key Key) Filter {
	return func(k Key) bool { return k == key }
}
