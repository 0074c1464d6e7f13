package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports/mocks"
	"github.com/Gunvolt24/orders_sync/internal/usecase"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

const orderID domain.OrderEntityID = "order-1"

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func TestDeleteOrder_Delegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrdersRepository(ctrl)
	repo.EXPECT().DeleteOrder(gomock.Any(), domain.ResourceRemote, orderID).Return(nil)

	uc := usecase.NewDeleteOrderUseCase(repo, noopLogger{})
	require.NoError(t, uc.Execute(context.Background(), usecase.DeleteOrderInput{
		Resource: domain.ResourceRemote,
		OrderID:  orderID,
	}))
}

func TestDeleteOrder_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrdersRepository(ctrl)
	log := mocks.NewMockLogger(ctrl)

	repoErr := &domain.MutationError{Op: "delete_order", Resource: domain.ResourceLocal, Err: domain.ErrNotFound}
	gomock.InOrder(
		repo.EXPECT().DeleteOrder(gomock.Any(), domain.Resource(""), orderID).Return(repoErr).Times(1),
		log.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1),
	)

	uc := usecase.NewDeleteOrderUseCase(repo, log)
	err := uc.Execute(context.Background(), usecase.DeleteOrderInput{OrderID: orderID})

	// ошибка не подменяется и не проглатывается
	assert.Same(t, repoErr, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteOrder_EmptyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrdersRepository(ctrl)
	repo.EXPECT().DeleteOrder(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	uc := usecase.NewDeleteOrderUseCase(repo, noopLogger{})
	assert.ErrorIs(t, uc.Execute(context.Background(), usecase.DeleteOrderInput{}), usecase.ErrEmptyID)
}

func TestDeleteOrderItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrdersRepository(ctrl)
	boom := errors.New("boom")

	gomock.InOrder(
		repo.EXPECT().DeleteOrderItem(gomock.Any(), domain.ResourceLocal, orderID, domain.ItemEntityID("order-1-item-1")).Return(nil),
		repo.EXPECT().DeleteOrderItem(gomock.Any(), domain.ResourceLocal, orderID, domain.ItemEntityID("order-1-item-2")).Return(boom),
	)

	uc := usecase.NewDeleteOrderItemUseCase(repo, noopLogger{})
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, usecase.DeleteOrderItemInput{Resource: domain.ResourceLocal, OrderID: orderID, ItemID: "order-1-item-1"}))
	assert.ErrorIs(t, uc.Execute(ctx, usecase.DeleteOrderItemInput{Resource: domain.ResourceLocal, OrderID: orderID, ItemID: "order-1-item-2"}), boom)
	assert.ErrorIs(t, uc.Execute(ctx, usecase.DeleteOrderItemInput{OrderID: orderID}), usecase.ErrEmptyID)
}

func TestSwitchResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockResourceSelector(ctrl)

	gomock.InOrder(
		store.EXPECT().Resource().Return(domain.ResourceLocal),
		store.EXPECT().SetResource(domain.ResourceRemote).Return(true, nil),
	)

	uc := usecase.NewSwitchResourceUseCase(store, noopLogger{})
	out, err := uc.Execute(context.Background(), usecase.SwitchResourceInput{Resource: " Remote "})
	require.NoError(t, err)
	assert.Equal(t, usecase.SwitchResourceOutput{
		Previous: domain.ResourceLocal,
		Current:  domain.ResourceRemote,
		Changed:  true,
	}, out)
}

func TestSwitchResource_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockResourceSelector(ctrl)
	store.EXPECT().SetResource(gomock.Any()).Times(0)

	uc := usecase.NewSwitchResourceUseCase(store, noopLogger{})
	_, err := uc.Execute(context.Background(), usecase.SwitchResourceInput{Resource: "mars"})
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}

const validOrderJSON = `{"id":"order-9","user_id":7,"items":[{"id":"order-9-item-1","product_id":42,"quantity":3}]}`

func TestSaveFromMessage_InvalidJson(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewIngestService(store, noopLogger{}, validator)

	for _, raw := range []string{"{", `{"id":"x","user_id":"u","items":[],"extra":1}`, validOrderJSON + "{}"} {
		err := svc.SaveFromMessage(context.Background(), []byte(raw))
		require.Error(t, err, raw)
		assert.True(t, strings.Contains(err.Error(), "invalid json") || errors.Is(err, domain.ErrInvalidPayload), raw)
		assert.ErrorIs(t, err, validate.ErrInvalidOrder, "invalid messages are skipped by the consumer")
	}
}

func TestSaveFromMessage_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewIngestService(store, noopLogger{}, validator)
	err := svc.SaveFromMessage(context.Background(), []byte(`{"id":"order-9","items":[]}`))
	assert.ErrorIs(t, err, validate.ErrInvalidOrder)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestSaveFromMessage_ValidationFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.AssignableToTypeOf(&domain.OrderEntity{})).Return(validate.ErrInvalidOrder)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewIngestService(store, noopLogger{}, validator)
	err := svc.SaveFromMessage(context.Background(), []byte(validOrderJSON))
	assert.ErrorIs(t, err, validate.ErrInvalidOrder)
}

func TestSaveFromMessage_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)

	var saved *domain.OrderEntity
	gomock.InOrder(
		validator.EXPECT().Validate(gomock.Any(), gomock.AssignableToTypeOf(&domain.OrderEntity{})).Return(nil),
		store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *domain.OrderEntity) error {
			saved = o
			return nil
		}),
	)

	svc := usecase.NewIngestService(store, noopLogger{}, validator)
	require.NoError(t, svc.SaveFromMessage(context.Background(), []byte(validOrderJSON)))

	require.NotNil(t, saved)
	assert.Equal(t, domain.OrderEntityID("order-9"), saved.ID)
	assert.Equal(t, domain.UserID("7"), saved.UserID)
	assert.Equal(t, []domain.ItemEntity{{ID: "order-9-item-1", ProductID: "42", Quantity: 3}}, saved.ItemEntities)
}

func TestSaveFromMessage_StoreErrorIsTransient(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)

	dbErr := errors.New("DB down")
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(dbErr)

	svc := usecase.NewIngestService(store, noopLogger{}, validator)
	err := svc.SaveFromMessage(context.Background(), []byte(validOrderJSON))
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, errors.Is(err, validate.ErrInvalidOrder))
}
