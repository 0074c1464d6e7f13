// Package presentation — состояние интерфейса, не относящееся к серверным данным.
package presentation

import (
	"sync"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// ResourceListener вызывается после смены активного источника, вне блокировок хранилища.
// Listener может сам вызвать SetResource: эта смена будет доставлена следующей,
// после возврата из текущего listener.
type ResourceListener func(prev, next domain.Resource)

type resourceChange struct{ prev, next domain.Resource }

// ResourceStore хранит выбранный источник заказов. С кэшем запросов не связан:
// на смену источника реагируют подписчики.
type ResourceStore struct {
	mu        sync.Mutex
	resource  domain.Resource
	listeners map[uint64]ResourceListener
	nextID    uint64

	// смены доставляются строго по очереди; рассылает тот, кто застал очередь пустой
	pending  []resourceChange
	draining bool
}

// NewResourceStore — хранилище с начальным источником; невалидный заменяется на local.
func NewResourceStore(initial domain.Resource) *ResourceStore {
	if !initial.Valid() {
		initial = domain.ResourceLocal
	}
	return &ResourceStore{
		resource:  initial,
		listeners: make(map[uint64]ResourceListener),
	}
}

func (s *ResourceStore) Resource() domain.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resource
}

// SetResource меняет источник и уведомляет подписчиков. Если рассылка уже идёт
// (из listener или из другой горутины), смена ставится в очередь и будет доставлена
// той же рассылкой. Повторная установка того же значения ничего не делает.
func (s *ResourceStore) SetResource(next domain.Resource) (bool, error) {
	if !next.Valid() {
		_, err := domain.ParseResource(string(next))
		return false, err
	}

	s.mu.Lock()
	prev := s.resource
	if prev == next {
		s.mu.Unlock()
		return false, nil
	}
	s.resource = next
	s.pending = append(s.pending, resourceChange{prev: prev, next: next})
	if s.draining {
		s.mu.Unlock()
		return true, nil
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
	return true, nil
}

func (s *ResourceStore) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		change := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]ResourceListener, 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(change.prev, change.next)
		}
	}
}

// Subscribe регистрирует listener; возвращает функцию отписки.
func (s *ResourceStore) Subscribe(listener ResourceListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
