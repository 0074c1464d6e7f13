package ports

import "github.com/Gunvolt24/orders_sync/internal/domain"

// ResourceSelector — выбор активного источника заказов в слое представления.
type ResourceSelector interface {
	Resource() domain.Resource
	SetResource(resource domain.Resource) (bool, error)
}
