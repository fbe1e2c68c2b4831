package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/pkg/paypal"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test-key"

type paymentHarness struct {
	svc    IPaymentService
	uow    *fakeUow
	cache  *fakeBalanceCache
	paypal *fakePayPal
	userId uuid.UUID
}

func newPaymentHarness(t *testing.T, credits int64) *paymentHarness {
	t.Helper()
	t.Setenv("MIDTRANS_SERVER_KEY", testServerKey)

	uow := newFakeUow()
	userId := uuid.New()
	uow.users.users[userId] = &entity.User{
		Id:       userId,
		Email:    "buyer@example.com",
		Credits:  credits,
		PlanTier: entity.PlanTierMetered,
	}

	cache := newFakeBalanceCache()
	pp := &fakePayPal{
		created:  &paypal.Order{Id: "PP-1", Status: "CREATED"},
		captured: &paypal.Order{Id: "PP-1", Status: "COMPLETED"},
	}

	svc := NewPaymentService(
		&fakeFactory{uow: uow},
		&fakeMidtrans{token: "snap-token-1"},
		pp,
		cache,
		nil, // no receipt emails in tests
		nil, // no external event bus in tests
	)

	return &paymentHarness{svc: svc, uow: uow, cache: cache, paypal: pp, userId: userId}
}

func (h *paymentHarness) pendingOrder(t *testing.T, plan entity.PlanName) *entity.PaymentOrder {
	t.Helper()
	order := &entity.PaymentOrder{
		Id:        uuid.New(),
		OrderId:   fmt.Sprintf("order-test-%s", uuid.New().String()[:8]),
		UserId:    h.userId,
		Plan:      plan,
		Method:    entity.PaymentMethodMidtrans,
		Amount:    entity.PlanByName(string(plan)).PriceIDR,
		Currency:  "IDR",
		Status:    entity.PaymentOrderPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, h.uow.orders.Create(context.Background(), order))
	return order
}

func signedWebhook(orderId, status, statusCode, grossAmount string) *dto.MidtransWebhookRequest {
	signatureInput := orderId + statusCode + grossAmount + testServerKey
	return &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: status,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput))),
	}
}

func (h *paymentHarness) storedOrder(orderId string) *entity.PaymentOrder {
	for _, o := range h.uow.orders.orders {
		if o.OrderId == orderId {
			return o
		}
	}
	return nil
}

func TestGetPlans(t *testing.T) {
	h := newPaymentHarness(t, 0)

	plans, err := h.svc.GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.Equal(t, int64(2000), plans[0].Credits)
	assert.True(t, plans[2].Unlimited)
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	h := newPaymentHarness(t, 0)

	res, err := h.svc.Checkout(context.Background(), h.userId, &dto.CheckoutRequest{Plan: "Pro"})
	require.NoError(t, err)
	assert.Equal(t, "snap-token-1", res.SnapToken)
	assert.NotEmpty(t, res.OrderId)

	order := h.storedOrder(res.OrderId)
	require.NotNil(t, order)
	assert.Equal(t, entity.PaymentOrderPending, order.Status)
	assert.Equal(t, int64(100000), order.Amount)
	assert.Equal(t, "IDR", order.Currency)
}

func TestCheckoutUnknownPlanRejected(t *testing.T) {
	h := newPaymentHarness(t, 0)

	_, err := h.svc.Checkout(context.Background(), h.userId, &dto.CheckoutRequest{Plan: "Mega"})
	require.ErrorIs(t, err, ErrUnknownPlan)
	assert.Empty(t, h.uow.orders.orders)
}

func TestCheckoutPayPalUsesUSD(t *testing.T) {
	h := newPaymentHarness(t, 0)

	res, err := h.svc.Checkout(context.Background(), h.userId, &dto.CheckoutRequest{Plan: "Basic", Method: "paypal"})
	require.NoError(t, err)

	order := h.storedOrder(res.OrderId)
	require.NotNil(t, order)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, int64(500), order.Amount)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanPro)

	req := signedWebhook(order.OrderId, "settlement", "200", "100000.00")
	req.SignatureKey = "deadbeef"

	err := h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}"))
	require.ErrorIs(t, err, ErrInvalidSignature)

	assert.Equal(t, int64(0), h.uow.users.users[h.userId].Credits)
	assert.Equal(t, entity.PaymentOrderPending, h.storedOrder(order.OrderId).Status)
}

func TestWebhookSettlementGrantsCredits(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanPro)

	req := signedWebhook(order.OrderId, "settlement", "200", "100000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	assert.Equal(t, int64(5000), h.uow.users.users[h.userId].Credits)
	assert.Equal(t, entity.PaymentOrderConfirmed, h.storedOrder(order.OrderId).Status)

	grants := h.uow.txns.ofType(entity.CreditTransactionGrant)
	require.Len(t, grants, 1)
	assert.Equal(t, int64(5000), grants[0].Amount)
	assert.Equal(t, 1, h.uow.orders.webhookEvents)
}

func TestWebhookDoubleSettlementGrantsOnce(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanPro)

	req := signedWebhook(order.OrderId, "settlement", "200", "100000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	assert.Equal(t, int64(5000), h.uow.users.users[h.userId].Credits)
	assert.Len(t, h.uow.txns.ofType(entity.CreditTransactionGrant), 1)
}

func TestWebhookConcurrentSettlementGrantsOnce(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanPro)

	req := signedWebhook(order.OrderId, "settlement", "200", "100000.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}"))
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(5000), h.uow.users.users[h.userId].Credits)
	assert.Len(t, h.uow.txns.ofType(entity.CreditTransactionGrant), 1)
	assert.Equal(t, entity.PaymentOrderConfirmed, h.storedOrder(order.OrderId).Status)
}

func TestWebhookUltimateUpgradesPlanTier(t *testing.T) {
	h := newPaymentHarness(t, 40)
	order := h.pendingOrder(t, entity.PlanUltimate)

	req := signedWebhook(order.OrderId, "capture", "200", "200000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	user := h.uow.users.users[h.userId]
	assert.Equal(t, entity.PlanTierUnlimited, user.PlanTier)
	// The unlimited tier flips the plan flag without touching the balance.
	assert.Equal(t, int64(40), user.Credits)
}

func TestWebhookUnknownPlanGrantsNothing(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanName("Mega"))

	req := signedWebhook(order.OrderId, "settlement", "200", "999999.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	assert.Equal(t, int64(0), h.uow.users.users[h.userId].Credits)
	assert.Empty(t, h.uow.txns.ofType(entity.CreditTransactionGrant))
	// The order is still closed so the gateway stops retrying.
	assert.Equal(t, entity.PaymentOrderConfirmed, h.storedOrder(order.OrderId).Status)
}

func TestWebhookExpireMarksFailed(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	req := signedWebhook(order.OrderId, "expire", "407", "50000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	assert.Equal(t, entity.PaymentOrderFailed, h.storedOrder(order.OrderId).Status)
	assert.Equal(t, int64(0), h.uow.users.users[h.userId].Credits)
}

func TestWebhookPendingIsNoop(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	req := signedWebhook(order.OrderId, "pending", "201", "50000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	assert.Equal(t, entity.PaymentOrderPending, h.storedOrder(order.OrderId).Status)
}

func TestWebhookUnknownOrderErrors(t *testing.T) {
	h := newPaymentHarness(t, 0)

	req := signedWebhook("order-does-not-exist", "settlement", "200", "100000.00")
	err := h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}"))
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmPayPalCapturesAndGrants(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	res, err := h.svc.ConfirmPayPal(context.Background(), h.userId, &dto.PayPalConfirmRequest{
		OrderId:       order.OrderId,
		PayPalOrderId: "PP-1",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentOrderConfirmed), res.Status)
	assert.Equal(t, int64(2000), res.Credits)
	assert.Equal(t, int64(2000), h.uow.users.users[h.userId].Credits)
}

func TestConfirmPayPalReplaySkipsCapture(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	req := &dto.PayPalConfirmRequest{OrderId: order.OrderId, PayPalOrderId: "PP-1"}
	_, err := h.svc.ConfirmPayPal(context.Background(), h.userId, req)
	require.NoError(t, err)

	res, err := h.svc.ConfirmPayPal(context.Background(), h.userId, req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentOrderConfirmed), res.Status)
	assert.Equal(t, int64(2000), res.Credits)

	assert.Equal(t, 1, h.paypal.captureCalls)
	assert.Len(t, h.uow.txns.ofType(entity.CreditTransactionGrant), 1)
}

func TestConfirmPayPalRejectsForeignOrder(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	_, err := h.svc.ConfirmPayPal(context.Background(), uuid.New(), &dto.PayPalConfirmRequest{
		OrderId:       order.OrderId,
		PayPalOrderId: "PP-1",
	})
	require.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, int64(0), h.uow.users.users[h.userId].Credits)
}

func TestConfirmPayPalIncompleteCapture(t *testing.T) {
	h := newPaymentHarness(t, 0)
	order := h.pendingOrder(t, entity.PlanBasic)
	h.paypal.captured = &paypal.Order{Id: "PP-1", Status: "PENDING"}

	_, err := h.svc.ConfirmPayPal(context.Background(), h.userId, &dto.PayPalConfirmRequest{
		OrderId:       order.OrderId,
		PayPalOrderId: "PP-1",
	})
	require.ErrorIs(t, err, ErrPaymentGateway)
	assert.Equal(t, int64(0), h.uow.users.users[h.userId].Credits)
}

func TestGrantInvalidatesBalanceCache(t *testing.T) {
	h := newPaymentHarness(t, 0)
	h.cache.Set(context.Background(), h.userId, 0)
	order := h.pendingOrder(t, entity.PlanBasic)

	req := signedWebhook(order.OrderId, "settlement", "200", "50000.00")
	require.NoError(t, h.svc.HandleMidtransNotification(context.Background(), req, []byte("{}")))

	_, ok := h.cache.Get(context.Background(), h.userId)
	assert.False(t, ok, "stale cached balance should be invalidated after a grant")
}
