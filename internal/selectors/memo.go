package selectors

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/repository/orders"
)

// DefaultParamCacheSize — сколько параметризованных селекторов держим на каждый вид.
const DefaultParamCacheSize = 256

// Selector — мемоизированная производная: пока на входе тот же снимок,
// возвращается ранее вычисленное значение.
type Selector[T any] struct {
	compute func(*orders.Snapshot) T

	mu    sync.Mutex
	input *orders.Snapshot
	value T
	ready bool
}

func NewSelector[T any](compute func(*orders.Snapshot) T) *Selector[T] {
	return &Selector[T]{compute: compute}
}

func (s *Selector[T]) Select(snap *orders.Snapshot) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready && s.input == snap {
		return s.value
	}
	s.value = s.compute(snap)
	s.input = snap
	s.ready = true
	return s.value
}

// Set — набор селекторов одного потребителя.
type Set struct {
	OrderIDs           *Selector[[]domain.OrderEntityID]
	TotalItemsQuantity *Selector[int]
	IsOrdersProcessing *Selector[bool]

	byID   *lru.Cache[domain.OrderEntityID, *Selector[*domain.OrderEntity]]
	isLast *lru.Cache[domain.OrderEntityID, *Selector[bool]]
}

// NewSet создаёт набор; size ограничивает кэш параметризованных селекторов.
func NewSet(size int) (*Set, error) {
	if size <= 0 {
		size = DefaultParamCacheSize
	}
	byID, err := lru.New[domain.OrderEntityID, *Selector[*domain.OrderEntity]](size)
	if err != nil {
		return nil, fmt.Errorf("order-by-id cache: %w", err)
	}
	isLast, err := lru.New[domain.OrderEntityID, *Selector[bool]](size)
	if err != nil {
		return nil, fmt.Errorf("is-last-id cache: %w", err)
	}

	return &Set{
		OrderIDs:           NewSelector(OrderIDs),
		TotalItemsQuantity: NewSelector(TotalItemsQuantity),
		IsOrdersProcessing: NewSelector(IsOrdersProcessing),
		byID:               byID,
		isLast:             isLast,
	}, nil
}

// MustNewSet — NewSet с паникой на ошибке.
func MustNewSet(size int) *Set {
	s, err := NewSet(size)
	if err != nil {
		panic(err)
	}
	return s
}

// OrderByID — селектор заказа по id; для одного id возвращается один и тот же экземпляр,
// пока он не вытеснен из кэша.
func (s *Set) OrderByID(id domain.OrderEntityID) *Selector[*domain.OrderEntity] {
	return getOrAdd(s.byID, id, func() *Selector[*domain.OrderEntity] {
		return NewSelector(func(snap *orders.Snapshot) *domain.OrderEntity { return OrderByID(snap, id) })
	})
}

// IsLastOrderID — селектор «id последнего заказа».
func (s *Set) IsLastOrderID(id domain.OrderEntityID) *Selector[bool] {
	return getOrAdd(s.isLast, id, func() *Selector[bool] {
		return NewSelector(func(snap *orders.Snapshot) bool { return IsLastOrderID(snap, id) })
	})
}

func getOrAdd[V any](cache *lru.Cache[domain.OrderEntityID, V], id domain.OrderEntityID, create func() V) V {
	if v, ok := cache.Get(id); ok {
		return v
	}
	v := create()
	if prev, ok, _ := cache.PeekOrAdd(id, v); ok {
		return prev
	}
	return v
}
