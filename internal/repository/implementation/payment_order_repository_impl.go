package implementation

import (
	"context"
	"errors"
	"time"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/mapper"
	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentOrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentOrderRepository(db *gorm.DB) contract.PaymentOrderRepository {
	return &PaymentOrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentOrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentOrderRepositoryImpl) Create(ctx context.Context, order *entity.PaymentOrder) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentOrderRepositoryImpl) Update(ctx context.Context, order *entity.PaymentOrder) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentOrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentOrder, error) {
	var m model.PaymentOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentOrderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentOrder, error) {
	var models []*model.PaymentOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

// ConfirmPending is the idempotency gate for payment confirmation. The status
// guard in the WHERE clause means that of any number of concurrent
// confirmations for one order, exactly one sees RowsAffected == 1.
func (r *PaymentOrderRepositoryImpl) ConfirmPending(ctx context.Context, orderId string, confirmedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderId, string(entity.PaymentOrderPending)).
		Updates(map[string]interface{}{
			"status":       string(entity.PaymentOrderConfirmed),
			"confirmed_at": confirmedAt,
			"updated_at":   confirmedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentOrderRepositoryImpl) RecordWebhookEvent(ctx context.Context, orderId, gateway, status string, payload []byte) error {
	event := &model.PaymentWebhookEvent{
		OrderId: orderId,
		Gateway: gateway,
		Status:  status,
		Payload: datatypes.JSON(payload),
	}
	return r.db.WithContext(ctx).Create(event).Error
}
