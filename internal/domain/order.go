package domain

// ItemEntityID — идентификатор позиции заказа.
type ItemEntityID string

// OrderEntityID — идентификатор заказа.
type OrderEntityID string

// ProductID — внешний идентификатор товара.
type ProductID string

// UserID — идентификатор владельца заказа.
type UserID string

// ItemEntity — позиция заказа: ссылка на товар и количество.
type ItemEntity struct {
	ID        ItemEntityID `json:"id"`
	ProductID ProductID    `json:"productId"`
	Quantity  int          `json:"quantity"`
}

// OrderEntity — заказ пользователя. Позиции принадлежат заказу по значению,
// ID позиций уникальны в пределах заказа.
type OrderEntity struct {
	ID           OrderEntityID `json:"id"`
	UserID       UserID        `json:"userId"`
	ItemEntities []ItemEntity  `json:"itemEntities"`
}

// Quantity — суммарное количество единиц товара в заказе.
func (o *OrderEntity) Quantity() int {
	total := 0
	for _, item := range o.ItemEntities {
		total += item.Quantity
	}
	return total
}

// HasItem — есть ли в заказе позиция с таким ID.
func (o *OrderEntity) HasItem(id ItemEntityID) bool {
	for _, item := range o.ItemEntities {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Clone — глубокая копия заказа (слайс позиций не разделяется).
func (o OrderEntity) Clone() OrderEntity {
	cloned := o
	cloned.ItemEntities = make([]ItemEntity, len(o.ItemEntities))
	copy(cloned.ItemEntities, o.ItemEntities)
	return cloned
}

// CloneOrders — копия коллекции заказов; nil превращается в пустой слайс.
func CloneOrders(orders []OrderEntity) []OrderEntity {
	out := make([]OrderEntity, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].Clone())
	}
	return out
}
