package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/genai"
	"ai-imagestudio-be/pkg/paypal"

	"github.com/google/uuid"
)

// ---- in-memory unit of work ----

type fakeUow struct {
	users  *fakeUserRepo
	images *fakeGenerationRepo
	txns   *fakeTxnRepo
	orders *fakeOrderRepo

	begins    int
	commits   int
	rollbacks int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:  &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		images: &fakeGenerationRepo{},
		txns:   &fakeTxnRepo{},
		orders: &fakeOrderRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                 { return u.users }
func (u *fakeUow) GenerationRepository() contract.GenerationRepository     { return u.images }
func (u *fakeUow) CreditTransactionRepository() contract.CreditTransactionRepository {
	return u.txns
}
func (u *fakeUow) PaymentOrderRepository() contract.PaymentOrderRepository { return u.orders }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// ---- repositories ----

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	debitErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.users[s.ID]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == s.Email {
					cp := *u
					return &cp, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var res []*entity.User
	for _, u := range r.users {
		cp := *u
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) DebitCredits(ctx context.Context, userId uuid.UUID, amount int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.debitErr != nil {
		return false, r.debitErr
	}
	u, ok := r.users[userId]
	if !ok || u.Credits < amount {
		return false, nil
	}
	u.Credits -= amount
	return true, nil
}

func (r *fakeUserRepo) CreditCredits(ctx context.Context, userId uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return errors.New("user not found")
	}
	u.Credits += amount
	return nil
}

func (r *fakeUserRepo) UpdatePlanTier(ctx context.Context, userId uuid.UUID, tier entity.PlanTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return errors.New("user not found")
	}
	u.PlanTier = tier
	return nil
}

type fakeGenerationRepo struct {
	images []*entity.GeneratedImage
}

func (r *fakeGenerationRepo) Create(ctx context.Context, image *entity.GeneratedImage) error {
	cp := *image
	r.images = append(r.images, &cp)
	return nil
}

func (r *fakeGenerationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error) {
	var res []*entity.GeneratedImage
	for _, img := range r.images {
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.UserOwnedBy); ok && img.UserId != s.UserID {
				keep = false
			}
		}
		if keep {
			cp := *img
			res = append(res, &cp)
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "created_at" {
			sort.Slice(res, func(i, j int) bool {
				if s.Desc {
					return res[i].CreatedAt.After(res[j].CreatedAt)
				}
				return res[i].CreatedAt.Before(res[j].CreatedAt)
			})
		}
	}
	return res, nil
}

func (r *fakeGenerationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.images)), nil
}

type fakeTxnRepo struct {
	mu   sync.Mutex
	txns []*entity.CreditTransaction
}

func (r *fakeTxnRepo) Create(ctx context.Context, txn *entity.CreditTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *txn
	r.txns = append(r.txns, &cp)
	return nil
}

func (r *fakeTxnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	return r.txns, nil
}

func (r *fakeTxnRepo) ofType(t entity.CreditTransactionType) []*entity.CreditTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*entity.CreditTransaction
	for _, txn := range r.txns {
		if txn.Type == t {
			res = append(res, txn)
		}
	}
	return res
}

type fakeOrderRepo struct {
	mu            sync.Mutex
	orders        []*entity.PaymentOrder
	webhookEvents int
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.OrderId == order.OrderId {
			cp := *order
			r.orders[i] = &cp
			return nil
		}
	}
	return errors.New("order not found")
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.ByOrderID); ok {
			for _, o := range r.orders {
				if o.OrderId == s.OrderID {
					cp := *o
					return &cp, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders, nil
}

func (r *fakeOrderRepo) ConfirmPending(ctx context.Context, orderId string, confirmedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderId == orderId && o.Status == entity.PaymentOrderPending {
			o.Status = entity.PaymentOrderConfirmed
			at := confirmedAt
			o.ConfirmedAt = &at
			o.UpdatedAt = confirmedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) RecordWebhookEvent(ctx context.Context, orderId, gateway, status string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhookEvents++
	return nil
}

// ---- engines, uploader, cache, publisher ----

type fakeGemini struct {
	result *genai.Result
	err    error
	calls  int
}

func (g *fakeGemini) GenerateImage(ctx context.Context, contents []*genai.Content) (*genai.Result, error) {
	g.calls++
	return g.result, g.err
}

type fakeRapid struct {
	dalleData []byte
	dalleErr  error
	video     json.RawMessage
	videoErr  error
	matte     string
	matteErr  error
	audioUrl  string
	audioErr  error
	calls     int
}

func (r *fakeRapid) GenerateDalleImage(ctx context.Context, prompt string) ([]byte, error) {
	r.calls++
	return r.dalleData, r.dalleErr
}

func (r *fakeRapid) GenerateRunwayVideo(ctx context.Context, prompt string) (json.RawMessage, error) {
	r.calls++
	return r.video, r.videoErr
}

func (r *fakeRapid) RemoveBackground(ctx context.Context, imageBase64 string) (string, error) {
	r.calls++
	return r.matte, r.matteErr
}

func (r *fakeRapid) SynthesizeSpeech(ctx context.Context, text string) (string, error) {
	r.calls++
	return r.audioUrl, r.audioErr
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (u *fakeUploader) Upload(ctx context.Context, fileDataURL, fileName string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	if u.url == "" {
		return fmt.Sprintf("https://ik.example.com/%s", fileName), nil
	}
	return u.url, nil
}

type fakeBalanceCache struct {
	values        map[uuid.UUID]int64
	invalidations int
}

func newFakeBalanceCache() *fakeBalanceCache {
	return &fakeBalanceCache{values: map[uuid.UUID]int64{}}
}

func (c *fakeBalanceCache) Get(ctx context.Context, userId uuid.UUID) (int64, bool) {
	v, ok := c.values[userId]
	return v, ok
}

func (c *fakeBalanceCache) Set(ctx context.Context, userId uuid.UUID, balance int64) {
	c.values[userId] = balance
}

func (c *fakeBalanceCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	delete(c.values, userId)
	c.invalidations++
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakePayPal struct {
	created      *paypal.Order
	captured     *paypal.Order
	err          error
	captureCalls int
}

func (p *fakePayPal) CreateOrder(ctx context.Context, referenceId string, amountUSD string) (*paypal.Order, error) {
	return p.created, p.err
}

func (p *fakePayPal) CaptureOrder(ctx context.Context, orderId string) (*paypal.Order, error) {
	p.captureCalls++
	return p.captured, p.err
}

type fakeMidtrans struct {
	token string
	err   error
}

func (m *fakeMidtrans) CreateSnapTransaction(orderId string, grossAmount int64, planName string) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return m.token, "https://app.sandbox.midtrans.com/snap/" + m.token, nil
}

func (m *fakeMidtrans) ChargeBankTransfer(orderId string, grossAmount int64, planName string, bank string) (*dto.ChargeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ChargeResponse{OrderId: orderId}, nil
}
