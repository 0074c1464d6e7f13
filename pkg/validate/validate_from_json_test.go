package validate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

func TestValidateOrderFromJSON_OK(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	order, err := ValidateOrderFromJSON(ctx, validator, []byte(minimalValidOrderJSON("o-1", 3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o-1" {
		t.Fatalf("unexpected order id: %s", order.ID)
	}
	if order.Quantity() != 3 {
		t.Fatalf("unexpected quantity: %d", order.Quantity())
	}
}

func TestValidateOrderFromJSON_NumericIDs(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	raw := `{"id": 7, "user_id": 3, "items": [{"id": 1, "product_id": 9, "quantity": 2}]}`
	order, err := ValidateOrderFromJSON(ctx, validator, []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "7" || order.ItemEntities[0].ProductID != "9" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestValidateOrderFromJSON_UnknownField(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	raw := `{"unknown":"x",` + minimalValidOrderJSON("o-2", 1)[1:]
	_, err := ValidateOrderFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "invalid json") {
		t.Fatalf("expected invalid json error, got: %v", err)
	}
}

func TestValidateOrderFromJSON_TrailingData(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	raw := minimalValidOrderJSON("o-3", 1) + "{}"
	_, err := ValidateOrderFromJSON(ctx, validator, []byte(raw))
	if err == nil || !strings.Contains(err.Error(), "trailing data") {
		t.Fatalf("expected trailing data error, got: %v", err)
	}
}

func TestValidateOrderFromJSON_MissingQuantity(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	raw := `{"id":"o-4","user_id":"u","items":[{"id":"i","product_id":"p"}]}`
	_, err := ValidateOrderFromJSON(ctx, validator, []byte(raw))
	if !errors.Is(err, ErrInvalidOrder) || !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid order + invalid payload, got: %v", err)
	}
}

func TestValidateOrderFromJSON_DomainError(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	// Не валиден: отрицательное количество
	_, err := ValidateOrderFromJSON(ctx, validator, []byte(minimalValidOrderJSON("o-5", -1)))
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected domain validation error, got %v", err)
	}
}

func TestValidateOrdersFromJSON_SkipsInvalidAndDuplicates(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	raw := "[" + minimalValidOrderJSON("a", 1) + "," +
		minimalValidOrderJSON("b", -1) + "," +
		minimalValidOrderJSON("a", 2) + "," +
		minimalValidOrderJSON("c", 4) + "]"

	orders, invalid, err := ValidateOrdersFromJSON(ctx, validator, []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invalid != 2 || len(orders) != 2 {
		t.Fatalf("unexpected result: valid=%d invalid=%d", len(orders), invalid)
	}
	if orders[0].ID != "a" || orders[1].ID != "c" {
		t.Fatalf("order must be preserved: %v, %v", orders[0].ID, orders[1].ID)
	}
}

// ---- helpers ----

func minimalValidOrderJSON(orderID string, quantity int) string {
	return `{
  "id": "` + orderID + `",
  "user_id": "user-1",
  "items": [
    {"id": "` + orderID + `-1", "product_id": "p-1", "quantity": ` + strconv.Itoa(quantity) + `}
  ]
}`
}
