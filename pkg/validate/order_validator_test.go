package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

func validOrder() *domain.OrderEntity {
	return &domain.OrderEntity{
		ID:     "1",
		UserID: "user-1",
		ItemEntities: []domain.ItemEntity{
			{ID: "1-1", ProductID: "p-1", Quantity: 5},
			{ID: "1-2", ProductID: "p-2", Quantity: 0},
		},
	}
}

func TestOrderValidator_Validate(t *testing.T) {
	v := validate.NewOrderValidator()
	ctx := context.Background()

	t.Run("valid order", func(t *testing.T) {
		o := validOrder()
		if err := v.Validate(ctx, o); err != nil {
			t.Fatalf("expected valid order, got: %v", err)
		}
	})

	t.Run("order without items", func(t *testing.T) {
		o := validOrder()
		o.ItemEntities = nil
		if err := v.Validate(ctx, o); err != nil {
			t.Fatalf("expected valid order, got: %v", err)
		}
	})

	type testCase struct {
		name      string
		makeOrder func() *domain.OrderEntity
		msg       string
	}

	cases := []testCase{
		{
			name:      "nil order",
			makeOrder: func() *domain.OrderEntity { return nil },
			msg:       "заказ не может быть nil",
		},
		{
			name: "empty id",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.ID = ""
				return o
			},
			msg: "id обязателен",
		},
		{
			name: "blank user_id",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.UserID = "  "
				return o
			},
			msg: "user_id обязателен",
		},
		{
			name: "empty item.id",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.ItemEntities[0].ID = ""
				return o
			},
			msg: "items[0].id обязателен",
		},
		{
			name: "empty item.product_id",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.ItemEntities[1].ProductID = ""
				return o
			},
			msg: "items[1].product_id обязателен",
		},
		{
			name: "negative item.quantity",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.ItemEntities[0].Quantity = -1
				return o
			},
			msg: "items[0].quantity должен быть неотрицательным",
		},
		{
			name: "duplicate item.id",
			makeOrder: func() *domain.OrderEntity {
				o := validOrder()
				o.ItemEntities[1].ID = o.ItemEntities[0].ID
				return o
			},
			msg: "не уникален в заказе",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.makeOrder()
			err := v.Validate(ctx, o)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}

			if !errors.Is(err, validate.ErrInvalidOrder) {
				t.Errorf("expected ErrInvalidOrder, got %v", err)
			}

			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected error message to contain %q, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestOrderValidator_ValidateCollection(t *testing.T) {
	v := validate.NewOrderValidator()
	ctx := context.Background()

	second := *validOrder()
	second.ID = "2"

	if err := v.ValidateCollection(ctx, []domain.OrderEntity{*validOrder(), second}); err != nil {
		t.Fatalf("expected valid collection, got: %v", err)
	}
	if err := v.ValidateCollection(ctx, nil); err != nil {
		t.Fatalf("expected empty collection to be valid, got: %v", err)
	}

	err := v.ValidateCollection(ctx, []domain.OrderEntity{*validOrder(), *validOrder()})
	if !errors.Is(err, validate.ErrInvalidOrder) || !strings.Contains(err.Error(), "повторяет orders[0]") {
		t.Fatalf("expected duplicate order id error, got: %v", err)
	}

	bad := *validOrder()
	bad.ID = "3"
	bad.ItemEntities = []domain.ItemEntity{{ID: "x", ProductID: "p", Quantity: -5}}
	err = v.ValidateCollection(ctx, []domain.OrderEntity{second, bad})
	if !errors.Is(err, validate.ErrInvalidOrder) || !strings.HasPrefix(err.Error(), "orders[1]:") {
		t.Fatalf("expected indexed item error, got: %v", err)
	}
}
