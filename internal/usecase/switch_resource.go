package usecase

import (
	"context"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

type SwitchResourceInput struct {
	Resource string
}

type SwitchResourceOutput struct {
	Previous domain.Resource
	Current  domain.Resource
	Changed  bool
}

// SwitchResourceUseCase меняет активный источник в слое представления.
// Отмену и вытеснение данных прежнего источника выполняет модуль заказов, подписанный на смену.
type SwitchResourceUseCase struct {
	store ports.ResourceSelector
	log   ports.Logger
}

func NewSwitchResourceUseCase(store ports.ResourceSelector, log ports.Logger) *SwitchResourceUseCase {
	return &SwitchResourceUseCase{store: store, log: log}
}

func (uc *SwitchResourceUseCase) Execute(ctx context.Context, in SwitchResourceInput) (SwitchResourceOutput, error) {
	next, err := domain.ParseResource(in.Resource)
	if err != nil {
		return SwitchResourceOutput{}, err
	}

	prev := uc.store.Resource()
	changed, err := uc.store.SetResource(next)
	if err != nil {
		uc.log.Warnf(ctx, "switch resource failed resource=%s err=%v", next, err)
		return SwitchResourceOutput{}, err
	}
	if changed {
		uc.log.Infof(ctx, "active resource switched %s -> %s", prev, next)
	}
	return SwitchResourceOutput{Previous: prev, Current: next, Changed: changed}, nil
}
