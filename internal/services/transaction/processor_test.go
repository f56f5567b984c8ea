package transaction

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "handy/internal/errors"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/payout"
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

// memTxRepo holds its row lock from GetByIDForUpdate until the surrounding
// unit of work finishes, the way FOR UPDATE holds until commit.
type memTxRepo struct {
	mu       sync.Mutex
	nextID   uint
	byID     map[uint]*models.Transaction
	rowLock  sync.Mutex
	lockHeld bool
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{nextID: 1, byID: make(map[uint]*models.Transaction)}
}

func (r *memTxRepo) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx.ID = r.nextID
	r.nextID++
	cp := *tx
	r.byID[tx.ID] = &cp
	return nil
}

func (r *memTxRepo) GetByID(_ context.Context, id uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *memTxRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Transaction, error) {
	r.rowLock.Lock()
	r.mu.Lock()
	r.lockHeld = true
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *memTxRepo) releaseLock() {
	r.mu.Lock()
	held := r.lockHeld
	r.lockHeld = false
	r.mu.Unlock()
	if held {
		r.rowLock.Unlock()
	}
}

func (r *memTxRepo) Update(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[tx.ID]; !ok {
		return repositories.ErrTransactionNotFound
	}
	cp := *tx
	r.byID[tx.ID] = &cp
	return nil
}

func (r *memTxRepo) ListByUser(_ context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.byID {
		if tx.UserID != nil && *tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// missCache never holds anything, forcing the wallet service to the repo.
type missCache struct{}

func (missCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}
func (missCache) SetWallet(context.Context, uint, *models.Wallet) error { return nil }
func (missCache) DeleteWallet(context.Context, uint) error              { return nil }

type memUnitOfWork struct {
	wallets *memWalletRepo
	txs     *memTxRepo
}

func (u *memUnitOfWork) Do(_ context.Context, fn func(repositories.TxRepos) error) error {
	defer u.txs.releaseLock()
	return fn(repositories.TxRepos{
		Wallets:      u.wallets,
		Transactions: u.txs,
	})
}

type recordingDispatcher struct {
	requests []payout.Request
	err      error
}

func (d *recordingDispatcher) Send(_ context.Context, req payout.Request) (string, error) {
	d.requests = append(d.requests, req)
	return "payout-1", d.err
}

type recordingCompleter struct {
	completed []uint
	err       error
}

func (c *recordingCompleter) CompleteTx(_ context.Context, _ repositories.TxRepos, chargeID uint) (*models.Charge, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.completed = append(c.completed, chargeID)
	return &models.Charge{ID: chargeID, Status: models.ChargeStatusCompleted}, nil
}

type processorFixture struct {
	svc       Service
	wallets   wallet.Service
	repo      *memWalletRepo
	txs       *memTxRepo
	payouts   *recordingDispatcher
	completer *recordingCompleter
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	walletRepo := newMemWalletRepo()
	txRepo := newMemTxRepo()
	walletSvc := wallet.NewService(walletRepo, missCache{}, wallet.NoopMetricsCollector{}, nil)
	payouts := &recordingDispatcher{}
	completer := &recordingCompleter{}
	uow := &memUnitOfWork{wallets: walletRepo, txs: txRepo}
	return &processorFixture{
		svc:       NewService(uow, txRepo, walletSvc, completer, payouts, nil),
		wallets:   walletSvc,
		repo:      walletRepo,
		txs:       txRepo,
		payouts:   payouts,
		completer: completer,
	}
}

func (f *processorFixture) available(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	bal, err := f.wallets.GetAvailableBalance(context.Background(), userID)
	require.NoError(t, err)
	return bal
}

func TestCreate(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	tx, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(100),
		TransactionType: models.TransactionTypeDeposit,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.NotEmpty(t, tx.Reference)
	require.NotNil(t, tx.WalletID)

	// Creation records intent only; no balance moves until Process.
	assert.True(t, f.available(t, 1).IsZero())
}

func TestCreate_Invalid(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.Zero,
		TransactionType: models.TransactionTypeDeposit,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(10),
		TransactionType: "transmogrify",
	})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestProcess_DepositThenWithdrawal(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(100),
		TransactionType: models.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	_, err = f.svc.Process(ctx, deposit.ID)
	require.NoError(t, err)
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(100)))

	withdrawal, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(70),
		TransactionType: models.TransactionTypeWithdrawal,
		PaymentType:     models.PaymentTypeConnect,
		Destination:     "acct_123",
	})
	require.NoError(t, err)
	processed, err := f.svc.Process(ctx, withdrawal.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusCompleted, processed.Status)
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(30)))

	require.Len(t, f.payouts.requests, 1)
	assert.Equal(t, "acct_123", f.payouts.requests[0].Destination)
	assert.Equal(t, withdrawal.Reference, f.payouts.requests[0].Reference)

	// A replay of the completed withdrawal must not reach the gateway again.
	_, err = f.svc.Process(ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Len(t, f.payouts.requests, 1)

	// 80 > 30 left: the transaction must stay pending and the balance hold.
	tooBig, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(80),
		TransactionType: models.TransactionTypeWithdrawal,
		PaymentType:     models.PaymentTypeConnect,
	})
	require.NoError(t, err)
	_, err = f.svc.Process(ctx, tooBig.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	stored, err := f.txs.GetByID(ctx, tooBig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(30)))
	assert.Len(t, f.payouts.requests, 1, "failed withdrawal must not dispatch a payout")
}

func TestProcess_Idempotent(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(50),
		TransactionType: models.TransactionTypeDeposit,
	})
	require.NoError(t, err)

	first, err := f.svc.Process(ctx, deposit.ID)
	require.NoError(t, err)
	second, err := f.svc.Process(ctx, deposit.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(50)),
		"re-processing must not double-credit")
}

func TestProcess_ConcurrentWorkersCreditOnce(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(50),
		TransactionType: models.TransactionTypeDeposit,
	})
	require.NoError(t, err)

	// Two workers pick up the same pending deposit. The row lock forces the
	// loser to re-read a completed status instead of its stale pending view.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Process(ctx, deposit.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(50)),
		"a deposit processed by two workers must credit exactly once")

	stored, err := f.txs.GetByID(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, stored.Status)
}

func TestProcess_TerminalAndUnknown(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	_, err := f.svc.Process(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	userID := uint(1)
	rejected := &models.Transaction{
		UserID:          &userID,
		Amount:          decimal.NewFromInt(10),
		TransactionType: models.TransactionTypeDeposit,
		Status:          models.TransactionStatusRejected,
	}
	require.NoError(t, f.txs.Create(ctx, rejected))

	_, err = f.svc.Process(ctx, rejected.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestProcess_Refund(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	refund, err := f.svc.Create(ctx, CreateRequest{
		UserID:          2,
		Amount:          decimal.NewFromInt(25),
		TransactionType: models.TransactionTypeRefund,
	})
	require.NoError(t, err)
	_, err = f.svc.Process(ctx, refund.ID)
	require.NoError(t, err)

	assert.True(t, f.available(t, 2).Equal(decimal.NewFromInt(25)))
}

func TestProcess_ChargeDelegates(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	tx, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(5),
		TransactionType: models.TransactionTypeCharge,
		Metadata:        map[string]interface{}{"charge_id": uint(42)},
	})
	require.NoError(t, err)

	processed, err := f.svc.Process(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, processed.Status)
	assert.Equal(t, []uint{42}, f.completer.completed)
}

func TestProcess_ChargeWithoutReference(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	tx, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(5),
		TransactionType: models.TransactionTypeCharge,
	})
	require.NoError(t, err)

	_, err = f.svc.Process(ctx, tx.ID)
	assert.ErrorIs(t, err, ErrMissingChargeRef)

	stored, err := f.txs.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, stored.Status)
}

func TestProcess_PayoutFailureKeepsLedger(t *testing.T) {
	f := newProcessorFixture(t)
	f.payouts.err = errors.New("gateway down")
	ctx := context.Background()

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(100),
		TransactionType: models.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	_, err = f.svc.Process(ctx, deposit.ID)
	require.NoError(t, err)

	withdrawal, err := f.svc.Create(ctx, CreateRequest{
		UserID:          1,
		Amount:          decimal.NewFromInt(40),
		TransactionType: models.TransactionTypeWithdrawal,
		PaymentType:     models.PaymentTypePaypal,
	})
	require.NoError(t, err)

	// The ledger committed before the gateway was asked; its failure is an
	// operator problem, not a rollback.
	processed, err := f.svc.Process(ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, processed.Status)
	assert.True(t, f.available(t, 1).Equal(decimal.NewFromInt(60)))
}
