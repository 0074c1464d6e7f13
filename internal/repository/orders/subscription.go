package orders

import (
	"sync"

	"github.com/Gunvolt24/orders_sync/internal/cache/query"
	"github.com/Gunvolt24/orders_sync/internal/domain"
)

// OrdersSubscription — подписка потребителя на коллекцию одного источника.
// При смене активного источника потребитель закрывает её и подписывается заново.
type OrdersSubscription struct {
	resource    domain.Resource
	unsubscribe query.Unsubscribe

	mu      sync.Mutex
	current *Snapshot
	closed  bool
}

func (s *OrdersSubscription) Resource() domain.Resource { return s.resource }

// Snapshot — последний полученный снимок.
func (s *OrdersSubscription) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Orders — данные последнего снимка; пустой срез во время загрузки и при ошибке.
func (s *OrdersSubscription) Orders() []domain.OrderEntity {
	return s.Snapshot().Orders()
}

func (s *OrdersSubscription) IsLoading() bool {
	snap := s.Snapshot()
	return snap != nil && snap.Loading
}

func (s *OrdersSubscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// set принимает только более новые снимки; после Close ничего не меняется.
func (s *OrdersSubscription) set(snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || (s.current != nil && snap.Version <= s.current.Version) {
		return false
	}
	s.current = snap
	return true
}
