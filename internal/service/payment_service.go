package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"strings"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/cache"
	"ai-imagestudio-be/internal/pkg/mailer"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats"
	"ai-imagestudio-be/pkg/paypal"

	"github.com/google/uuid"
)

// PayPalGateway abstracts the PayPal Orders API for checkout and capture.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, referenceId string, amountUSD string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderId string) (*paypal.Order, error)
}

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	ChargeBankTransfer(ctx context.Context, userId uuid.UUID, req *dto.ChargeRequest) (*dto.ChargeResponse, error)
	HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest, rawPayload []byte) error
	ConfirmPayPal(ctx context.Context, userId uuid.UUID, req *dto.PayPalConfirmRequest) (*dto.ConfirmationResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	midtrans       MidtransGateway
	paypalGateway  PayPalGateway
	balanceCache   cache.IBalanceCache
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	midtransGateway MidtransGateway,
	paypalGateway PayPalGateway,
	balanceCache cache.IBalanceCache,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		midtrans:       midtransGateway,
		paypalGateway:  paypalGateway,
		balanceCache:   balanceCache,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	res := make([]*dto.PlanResponse, 0, len(entity.Plans))
	for _, p := range entity.Plans {
		res = append(res, &dto.PlanResponse{
			Name:      string(p.Name),
			Credits:   p.CreditGrant,
			Unlimited: p.Unlimited,
			PriceIDR:  p.PriceIDR,
			PriceUSD:  p.PriceUSD,
		})
	}
	return res, nil
}

func newOrderId() string {
	return fmt.Sprintf("order-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan := entity.PlanByName(req.Plan)
	if plan.PriceIDR == 0 && plan.PriceUSD == 0 {
		return nil, ErrUnknownPlan
	}

	method := entity.PaymentMethodMidtrans
	if req.Method == string(entity.PaymentMethodPayPal) {
		method = entity.PaymentMethodPayPal
	}

	orderId := newOrderId()
	order := &entity.PaymentOrder{
		Id:        uuid.New(),
		OrderId:   orderId,
		UserId:    userId,
		Plan:      plan.Name,
		Method:    method,
		Status:    entity.PaymentOrderPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	switch method {
	case entity.PaymentMethodPayPal:
		order.Amount = plan.PriceUSD
		order.Currency = "USD"
	default:
		order.Amount = plan.PriceIDR
		order.Currency = "IDR"
	}

	// Persist the pending order before touching the gateway so every later
	// confirmation callback has a row to correlate against.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaymentOrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	if method == entity.PaymentMethodPayPal {
		amountUSD := fmt.Sprintf("%d.%02d", plan.PriceUSD/100, plan.PriceUSD%100)
		paypalOrder, err := s.paypalGateway.CreateOrder(ctx, orderId, amountUSD)
		if err != nil {
			s.markFailed(ctx, orderId)
			return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}
		return &dto.CheckoutResponse{
			OrderId:    orderId,
			ApproveUrl: paypalOrder.ApproveLink(),
		}, nil
	}

	token, redirectURL, err := s.midtrans.CreateSnapTransaction(orderId, plan.PriceIDR, string(plan.Name))
	if err != nil {
		s.markFailed(ctx, orderId)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	return &dto.CheckoutResponse{
		OrderId:         orderId,
		SnapToken:       token,
		SnapRedirectUrl: redirectURL,
	}, nil
}

func (s *paymentService) ChargeBankTransfer(ctx context.Context, userId uuid.UUID, req *dto.ChargeRequest) (*dto.ChargeResponse, error) {
	plan := entity.PlanByName(req.Plan)
	if plan.PriceIDR == 0 {
		return nil, ErrUnknownPlan
	}

	orderId := newOrderId()
	order := &entity.PaymentOrder{
		Id:        uuid.New(),
		OrderId:   orderId,
		UserId:    userId,
		Plan:      plan.Name,
		Method:    entity.PaymentMethodMidtrans,
		Amount:    plan.PriceIDR,
		Currency:  "IDR",
		Status:    entity.PaymentOrderPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaymentOrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	chargeRes, err := s.midtrans.ChargeBankTransfer(orderId, plan.PriceIDR, string(plan.Name), req.Bank)
	if err != nil {
		s.markFailed(ctx, orderId)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	chargeRes.OrderId = orderId
	return chargeRes, nil
}

func (s *paymentService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest, rawPayload []byte) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		return ErrInvalidSignature
	}

	// Audit copy of the raw payload, outside the confirmation transaction.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaymentOrderRepository().RecordWebhookEvent(ctx, req.OrderId, "midtrans", req.TransactionStatus, rawPayload); err != nil {
		fmt.Printf("[WARN] Failed to record webhook event for order %s: %v\n", req.OrderId, err)
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		_, _, err := s.confirmOrder(ctx, req.OrderId)
		return err
	case "deny", "cancel", "expire":
		s.markFailed(ctx, req.OrderId)
		return nil
	default:
		// pending and anything unknown: leave the order alone, Midtrans
		// will call again with a final status.
		return nil
	}
}

func (s *paymentService) ConfirmPayPal(ctx context.Context, userId uuid.UUID, req *dto.PayPalConfirmRequest) (*dto.ConfirmationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.PaymentOrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: req.OrderId})
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return nil, ErrOrderNotFound
	}
	if order.Status == entity.PaymentOrderConfirmed {
		// Replayed confirmation; don't issue a second capture against PayPal.
		_, balance, err := s.confirmedSnapshot(ctx, req.OrderId)
		if err != nil {
			return nil, err
		}
		return &dto.ConfirmationResponse{
			OrderId: order.OrderId,
			Status:  string(order.Status),
			Credits: balance,
		}, nil
	}

	captured, err := s.paypalGateway.CaptureOrder(ctx, req.PayPalOrderId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if !strings.EqualFold(captured.Status, "COMPLETED") {
		return nil, fmt.Errorf("%w: capture status %s", ErrPaymentGateway, captured.Status)
	}

	order, balance, err := s.confirmOrder(ctx, req.OrderId)
	if err != nil {
		return nil, err
	}

	return &dto.ConfirmationResponse{
		OrderId: order.OrderId,
		Status:  string(order.Status),
		Credits: balance,
	}, nil
}

// confirmOrder grants credits for a paid order exactly once. A second
// confirmation for the same order is a no-op. Returns the post-grant balance.
func (s *paymentService) confirmOrder(ctx context.Context, orderId string) (*entity.PaymentOrder, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	order, err := uow.PaymentOrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderId})
	if err != nil {
		return nil, 0, err
	}
	if order == nil {
		return nil, 0, ErrOrderNotFound
	}

	now := time.Now()

	// The guarded pending->confirmed transition is the idempotency gate:
	// gateways retry notifications, and retries can arrive concurrently.
	// Only the delivery whose update matched the pending row grants.
	applied, err := uow.PaymentOrderRepository().ConfirmPending(ctx, orderId, now)
	if err != nil {
		return nil, 0, err
	}
	if !applied {
		return s.confirmedSnapshot(ctx, orderId)
	}

	plan := entity.PlanByName(string(order.Plan))

	if plan.Unlimited {
		if err := uow.UserRepository().UpdatePlanTier(ctx, order.UserId, entity.PlanTierUnlimited); err != nil {
			return nil, 0, err
		}
	} else if plan.CreditGrant > 0 {
		if err := uow.UserRepository().CreditCredits(ctx, order.UserId, plan.CreditGrant); err != nil {
			return nil, 0, err
		}
	}

	if plan.CreditGrant > 0 || plan.Unlimited {
		reference := order.OrderId
		grantTxn := &entity.CreditTransaction{
			Id:        uuid.New(),
			UserId:    order.UserId,
			Type:      entity.CreditTransactionGrant,
			Amount:    plan.CreditGrant,
			Reference: &reference,
			CreatedAt: time.Now(),
		}
		if err := uow.CreditTransactionRepository().Create(ctx, grantTxn); err != nil {
			return nil, 0, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, err
	}

	order.Status = entity.PaymentOrderConfirmed
	order.ConfirmedAt = &now
	order.UpdatedAt = now

	s.balanceCache.Invalidate(ctx, order.UserId)

	user, _ := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: order.UserId})
	var balance int64
	if user != nil {
		balance = user.Credits
	}

	s.notifyGranted(ctx, order, plan, user)
	return order, balance, nil
}

// confirmedSnapshot reports an order that another delivery already closed.
func (s *paymentService) confirmedSnapshot(ctx context.Context, orderId string) (*entity.PaymentOrder, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.PaymentOrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderId})
	if err != nil {
		return nil, 0, err
	}
	if order == nil {
		return nil, 0, ErrOrderNotFound
	}
	user, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: order.UserId})
	var balance int64
	if user != nil {
		balance = user.Credits
	}
	return order, balance, nil
}

func (s *paymentService) markFailed(ctx context.Context, orderId string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.PaymentOrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderId})
	if err != nil || order == nil {
		return
	}
	if order.Status != entity.PaymentOrderPending {
		return
	}
	order.Status = entity.PaymentOrderFailed
	order.UpdatedAt = time.Now()
	if err := uow.PaymentOrderRepository().Update(ctx, order); err != nil {
		fmt.Printf("[WARN] Failed to mark order %s failed: %v\n", orderId, err)
	}
}

func (s *paymentService) notifyGranted(ctx context.Context, order *entity.PaymentOrder, plan entity.Plan, user *entity.User) {
	if user != nil && s.emailService != nil {
		go func() {
			if err := s.emailService.SendPaymentReceipt(user.Email, string(plan.Name), plan.CreditGrant, order.OrderId); err != nil {
				fmt.Printf("[WARN] Failed to send receipt for order %s: %v\n", order.OrderId, err)
			}
		}()
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CREDITS_GRANTED",
			Data: map[string]interface{}{
				"user_id":   order.UserId,
				"order_id":  order.OrderId,
				"plan":      string(plan.Name),
				"credits":   plan.CreditGrant,
				"unlimited": plan.Unlimited,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CREDITS_GRANTED event: %v\n", err)
		}
	}
}
