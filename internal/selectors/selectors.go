// Package selectors — чистые производные над снимком коллекции заказов.
// Ни один селектор не меняет снимок и не обращается к источнику.
package selectors

import (
	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/repository/orders"
)

// OrderIDs — id заказов в порядке коллекции; пустой срез во время загрузки и при ошибке.
func OrderIDs(s *orders.Snapshot) []domain.OrderEntityID {
	list := s.Orders()
	ids := make([]domain.OrderEntityID, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	return ids
}

// OrderByID — заказ с данным id или nil.
func OrderByID(s *orders.Snapshot, id domain.OrderEntityID) *domain.OrderEntity {
	return s.Order(id)
}

// IsLastOrderID — id совпадает с id последнего заказа. На пустой коллекции всегда false.
func IsLastOrderID(s *orders.Snapshot, id domain.OrderEntityID) bool {
	list := s.Orders()
	if len(list) == 0 {
		return false
	}
	return list[len(list)-1].ID == id
}

// IsOrdersProcessing — идёт загрузка или мутация.
func IsOrdersProcessing(s *orders.Snapshot) bool {
	return s != nil && s.Processing
}

// TotalItemsQuantity — сумма количеств всех позиций; 0 для пустой коллекции и при ошибке загрузки.
func TotalItemsQuantity(s *orders.Snapshot) int {
	list := s.Orders()
	total := 0
	for i := range list {
		total += list[i].Quantity()
	}
	return total
}
