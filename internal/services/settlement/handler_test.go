package settlement

import (
	"context"
	"sync"
	"testing"

	domain "handy/internal/errors"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWalletRepo struct {
	mu     sync.Mutex
	nextID uint
	byUser map[uint]*models.Wallet
}

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{nextID: 1, byUser: make(map[uint]*models.Wallet)}
}

func (r *memWalletRepo) Create(_ context.Context, w *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[w.UserID]; ok {
		return repositories.ErrDuplicateWallet
	}
	w.ID = r.nextID
	r.nextID++
	cp := *w
	r.byUser[w.UserID] = &cp
	return nil
}

func (r *memWalletRepo) GetByID(_ context.Context, id uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.byUser {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *memWalletRepo) GetByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byUser[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memWalletRepo) GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memWalletRepo) Update(_ context.Context, w *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[w.UserID]; !ok {
		return repositories.ErrWalletNotFound
	}
	cp := *w
	r.byUser[w.UserID] = &cp
	return nil
}

func (r *memWalletRepo) ExecuteInTransaction(_ context.Context, fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

type phaseKey struct {
	orderID uint
	phase   string
}

type memSettlementRepo struct {
	mu      sync.Mutex
	claimed map[phaseKey]bool
}

func newMemSettlementRepo() *memSettlementRepo {
	return &memSettlementRepo{claimed: make(map[phaseKey]bool)}
}

func (r *memSettlementRepo) ClaimPhase(_ context.Context, orderID uint, phase string, _ uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := phaseKey{orderID, phase}
	if r.claimed[key] {
		return false, nil
	}
	r.claimed[key] = true
	return true, nil
}

type memOrderRepo struct {
	mu   sync.Mutex
	byID map[uint]*models.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: make(map[uint]*models.Order)}
}

func (r *memOrderRepo) Upsert(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

type missCache struct{}

func (missCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}
func (missCache) SetWallet(context.Context, uint, *models.Wallet) error { return nil }
func (missCache) DeleteWallet(context.Context, uint) error              { return nil }

type memUnitOfWork struct {
	wallets     *memWalletRepo
	settlements *memSettlementRepo
	orders      *memOrderRepo
}

func (u *memUnitOfWork) Do(_ context.Context, fn func(repositories.TxRepos) error) error {
	return fn(repositories.TxRepos{
		Wallets:     u.wallets,
		Settlements: u.settlements,
		Orders:      u.orders,
	})
}

type settlementFixture struct {
	handler Handler
	wallets wallet.Service
	orders  *memOrderRepo
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	walletRepo := newMemWalletRepo()
	walletSvc := wallet.NewService(walletRepo, missCache{}, wallet.NoopMetricsCollector{}, nil)
	uow := &memUnitOfWork{
		wallets:     walletRepo,
		settlements: newMemSettlementRepo(),
		orders:      newMemOrderRepo(),
	}
	return &settlementFixture{
		handler: NewHandler(uow, walletSvc, nil),
		wallets: walletSvc,
		orders:  uow.orders,
	}
}

func paidOrder(orderStatus string) OrderEvent {
	return OrderEvent{
		OrderID:        1,
		UserID:         2,
		ProviderUserID: 9,
		TotalPrice:     decimal.NewFromInt(50),
		PaidAmount:     decimal.NewFromInt(50),
		OrderStatus:    orderStatus,
		PaymentStatus:  models.PaymentStatusCompleted,
	}
}

func TestOnOrderSaved_HoldThenRelease(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	// Paid but not yet completed: the 50 goes on hold.
	require.NoError(t, f.handler.OnOrderSaved(ctx, paidOrder(models.OrderStatusPending)))

	w, err := f.wallets.GetWallet(ctx, 9)
	require.NoError(t, err)
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, w.AvailableBalance.IsZero())
	assert.True(t, w.TotalEarnings.Equal(decimal.NewFromInt(50)))

	// Completion releases the hold.
	require.NoError(t, f.handler.OnOrderSaved(ctx, paidOrder(models.OrderStatusCompleted)))

	w, err = f.wallets.GetWallet(ctx, 9)
	require.NoError(t, err)
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, w.PendingBalance.IsZero())

	// The order snapshot tracks the latest save.
	o, err := f.orders.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, o.OrderStatus)
}

func TestOnOrderSaved_ReplayIsSafe(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.handler.OnOrderSaved(ctx, paidOrder(models.OrderStatusPending)))
	}

	w, err := f.wallets.GetWallet(ctx, 9)
	require.NoError(t, err)
	assert.True(t, w.PendingBalance.Equal(decimal.NewFromInt(50)),
		"replayed notifications must not double-credit")

	for i := 0; i < 3; i++ {
		require.NoError(t, f.handler.OnOrderSaved(ctx, paidOrder(models.OrderStatusCompleted)))
	}

	w, err = f.wallets.GetWallet(ctx, 9)
	require.NoError(t, err)
	assert.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, w.PendingBalance.IsZero())
}

func TestOnOrderSaved_IgnoresUnrelatedSaves(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	unpaid := paidOrder(models.OrderStatusPending)
	unpaid.PaymentStatus = models.PaymentStatusPending
	require.NoError(t, f.handler.OnOrderSaved(ctx, unpaid))

	rejected := paidOrder(models.OrderStatusRejected)
	require.NoError(t, f.handler.OnOrderSaved(ctx, rejected))

	// No phase matched, so no wallet was ever created.
	_, err := f.wallets.GetWallet(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOnOrderSaved_InvalidPaidAmount(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	event := paidOrder(models.OrderStatusPending)
	event.PaidAmount = decimal.Zero
	assert.ErrorIs(t, f.handler.OnOrderSaved(ctx, event), domain.ErrInvalidAmount)
}

func TestOnOrderSaved_ReleaseWithoutHold(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	// An order can complete without the handler ever seeing the paid
	// pending save. Nothing is on hold, so the release moves nothing.
	require.NoError(t, f.handler.OnOrderSaved(ctx, paidOrder(models.OrderStatusCompleted)))

	w, err := f.wallets.GetWallet(ctx, 9)
	require.NoError(t, err)
	assert.True(t, w.AvailableBalance.IsZero())
	assert.True(t, w.PendingBalance.IsZero())
}
