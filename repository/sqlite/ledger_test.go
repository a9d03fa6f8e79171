package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ledger/events"
	"ledger/models"
	"ledger/repository/testutil"
	"ledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	bus       *events.Bus
	accounts  service.AccountService
	transfers service.TransferService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := testutil.SetupSQLiteDatabase(t)
	bus := events.NewBus()
	factory := NewUnitOfWorkFactory(db, bus)
	hasher := testutil.NewTestHasher()

	return &ledgerFixture{
		bus:       bus,
		accounts:  service.NewAccountService(factory, hasher),
		transfers: service.NewTransferService(factory, hasher),
	}
}

func (f *ledgerFixture) create(t *testing.T, username string, balance int64, password string) *models.Account {
	t.Helper()
	account, err := f.accounts.CreateAccount(context.Background(), testutil.CreateTestAccountParams(username, balance, password))
	require.NoError(t, err)
	return account
}

func (f *ledgerFixture) balance(t *testing.T, id int64) int64 {
	t.Helper()
	account, err := f.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func TestLedger_EndToEndScenario(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	x := f.create(t, "x", 10, "")
	y := f.create(t, "y", 10, "")

	result, err := f.transfers.Transfer(ctx, models.TransferRequest{SenderID: x.ID, ReceiverID: y.ID, Amount: 6})
	require.NoError(t, err)
	assert.Equal(t, &models.TransferResult{SenderID: x.ID, ReceiverID: y.ID, Amount: 6}, result)
	assert.Equal(t, int64(4), f.balance(t, x.ID))
	assert.Equal(t, int64(16), f.balance(t, y.ID))

	_, err = f.transfers.Transfer(ctx, models.TransferRequest{SenderID: x.ID, ReceiverID: y.ID, Amount: 6})
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	assert.Equal(t, int64(4), f.balance(t, x.ID))
	assert.Equal(t, int64(16), f.balance(t, y.ID))
}

func TestLedger_BalanceSumInvariant(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	a := f.create(t, "a", 100, "pa")
	b := f.create(t, "b", 50, "pb")
	c := f.create(t, "c", 0, "pc")

	steps := []models.TransferRequest{
		{SenderID: a.ID, ReceiverID: b.ID, Amount: 30, Credential: "pa"},
		{SenderID: b.ID, ReceiverID: c.ID, Amount: 80, Credential: "pb"},
		{SenderID: c.ID, ReceiverID: a.ID, Amount: 5, Credential: "pc"},
		{SenderID: a.ID, ReceiverID: c.ID, Amount: 75, Credential: "pa"},
		{SenderID: c.ID, ReceiverID: b.ID, Amount: 1000, Credential: "pc"},
	}
	for _, req := range steps {
		_, _ = f.transfers.Transfer(ctx, req)
	}

	total := f.balance(t, a.ID) + f.balance(t, b.ID) + f.balance(t, c.ID)
	assert.Equal(t, int64(150), total)
	assert.Equal(t, int64(0), f.balance(t, a.ID))
	assert.Equal(t, int64(0), f.balance(t, b.ID))
	assert.Equal(t, int64(150), f.balance(t, c.ID))
}

func TestLedger_CredentialGate(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	a := f.create(t, "a", 10, "right")
	b := f.create(t, "b", 10, "")

	for _, supplied := range []string{"", "wrong", "Right"} {
		_, err := f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: b.ID, Amount: 1, Credential: supplied})
		assert.ErrorIs(t, err, service.ErrInvalidCredential, supplied)
	}

	assert.Equal(t, int64(10), f.balance(t, a.ID))
	assert.Equal(t, int64(10), f.balance(t, b.ID))
}

func TestLedger_CredentialCheckedBeforeReceiver(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	a := f.create(t, "a", 10, "right")

	_, err := f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: a.ID + 100, Amount: 1, Credential: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredential)

	_, err = f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: a.ID + 100, Amount: 1, Credential: "right"})
	assert.ErrorIs(t, err, service.ErrAccountNotFound)

	_, err = f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID + 100, ReceiverID: a.ID, Amount: 1})
	assert.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestLedger_RoundTrip(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	created := f.create(t, "round", 7, "pw")
	got, err := f.accounts.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, got.Username)
	assert.Equal(t, created.Balance, got.Balance)

	deleted, err := f.accounts.DeleteAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.accounts.GetAccount(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrAccountNotFound)

	_, err = f.accounts.DeleteAccount(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestLedger_ListingExposesSummaryOnly(t *testing.T) {
	f := newLedgerFixture(t)

	a := f.create(t, "a", 10, "secret")
	b := f.create(t, "b", 20, "")

	summaries, err := f.accounts.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.AccountSummary{
		{ID: a.ID, Name: "Test a", Username: "a"},
		{ID: b.ID, Name: "Test b", Username: "b"},
	}, summaries)
}

func TestLedger_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	sender := f.create(t, "sender", 100, "")
	receivers := []*models.Account{
		f.create(t, "r1", 0, ""),
		f.create(t, "r2", 0, ""),
	}

	const attempts = 30
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(receiver *models.Account) {
			defer wg.Done()
			_, err := f.transfers.Transfer(ctx, models.TransferRequest{SenderID: sender.ID, ReceiverID: receiver.ID, Amount: 7})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, service.ErrInsufficientFunds) {
				t.Errorf("unexpected transfer error: %v", err)
			}
		}(receivers[i%2])
	}
	wg.Wait()

	// 100 / 7 = 14 transfers fit
	assert.Equal(t, 14, succeeded)
	assert.Equal(t, int64(2), f.balance(t, sender.ID))
	assert.Equal(t, int64(98), f.balance(t, receivers[0].ID)+f.balance(t, receivers[1].ID))
}

func TestLedger_EventsFollowCommit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	completed := make(chan events.TransferCompletedEvent, 2)
	f.bus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		completed <- event.(events.TransferCompletedEvent)
	})

	a := f.create(t, "a", 5, "")
	b := f.create(t, "b", 0, "")

	_, err := f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: b.ID, Amount: 10})
	require.ErrorIs(t, err, service.ErrInsufficientFunds)

	_, err = f.transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: b.ID, Amount: 5})
	require.NoError(t, err)

	select {
	case event := <-completed:
		assert.Equal(t, events.TransferCompletedEvent{SenderID: a.ID, ReceiverID: b.ID, Amount: 5}, event)
	case <-time.After(time.Second):
		t.Fatal("transfer event not delivered")
	}

	select {
	case event := <-completed:
		t.Fatalf("unexpected second event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}
