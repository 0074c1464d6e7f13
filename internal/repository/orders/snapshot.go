package orders

import (
	"time"

	"github.com/Gunvolt24/orders_sync/internal/cache/query"
	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// Snapshot — неизменяемый снимок коллекции заказов одного источника.
// Для одной версии кэша репозиторий отдаёт один и тот же указатель.
type Snapshot struct {
	Resource   domain.Resource
	Status     query.Status
	Err        error
	Loading    bool
	Processing bool
	Mutations  int
	Stale      bool
	UpdatedAt  time.Time
	Version    uint64

	orders []domain.OrderEntity
	index  map[domain.OrderEntityID]int
}

func newSnapshot(resource domain.Resource, st query.State) *Snapshot {
	s := &Snapshot{
		Resource:   resource,
		Status:     st.Status,
		Err:        st.Err,
		Loading:    st.IsLoading(),
		Processing: st.Processing(),
		Mutations:  st.Mutating,
		Stale:      st.Stale,
		UpdatedAt:  st.UpdatedAt,
		Version:    st.Version,
		orders:     []domain.OrderEntity{},
	}

	// ошибка загрузки и отсутствие данных дают пустую коллекцию
	if data, ok := st.Data.([]domain.OrderEntity); ok && st.HasData && st.Status != query.StatusError {
		s.orders = data
	}
	s.index = make(map[domain.OrderEntityID]int, len(s.orders))
	for i := range s.orders {
		s.index[s.orders[i].ID] = i
	}
	return s
}

// Orders — заказы в порядке источника; пустой срез во время загрузки и при ошибке.
// Срез общий для всех читателей снимка, изменять его нельзя.
func (s *Snapshot) Orders() []domain.OrderEntity {
	if s == nil {
		return []domain.OrderEntity{}
	}
	return s.orders
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.orders)
}

// Order — заказ по id или nil. Указывает внутрь снимка.
func (s *Snapshot) Order(id domain.OrderEntityID) *domain.OrderEntity {
	if s == nil {
		return nil
	}
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return &s.orders[i]
}

// Failed — последняя загрузка завершилась ошибкой.
func (s *Snapshot) Failed() bool {
	return s != nil && s.Status == query.StatusError
}
