package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(o *model.PaymentOrder) *entity.PaymentOrder {
	if o == nil {
		return nil
	}
	return &entity.PaymentOrder{
		Id:          o.Id,
		OrderId:     o.OrderId,
		UserId:      o.UserId,
		Plan:        entity.PlanName(o.Plan),
		Method:      entity.PaymentMethod(o.Method),
		Amount:      o.Amount,
		Currency:    o.Currency,
		Status:      entity.PaymentOrderStatus(o.Status),
		ConfirmedAt: o.ConfirmedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(o *entity.PaymentOrder) *model.PaymentOrder {
	if o == nil {
		return nil
	}
	return &model.PaymentOrder{
		Id:          o.Id,
		OrderId:     o.OrderId,
		UserId:      o.UserId,
		Plan:        string(o.Plan),
		Method:      string(o.Method),
		Amount:      o.Amount,
		Currency:    o.Currency,
		Status:      string(o.Status),
		ConfirmedAt: o.ConfirmedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *PaymentMapper) ToEntities(orders []*model.PaymentOrder) []*entity.PaymentOrder {
	entities := make([]*entity.PaymentOrder, len(orders))
	for i, o := range orders {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
