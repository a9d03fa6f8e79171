package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ledger/events"
	"ledger/models"
	"ledger/repository/testutil"
	"ledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var delivered atomic.Int32
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		delivered.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	created, err := uow.AccountRepository().Create(ctx, testutil.CreateTestAccountRecord("rolled", 5, ""))
	require.NoError(t, err)
	uow.EventBus().Publish(events.AccountCreatedEvent{AccountID: created.ID})

	require.NoError(t, uow.Rollback())

	account, err := NewAccountRepository(testDB.DB).GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, account)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), delivered.Load())
}

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		received <- event
	})

	uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	created, err := uow.AccountRepository().Create(ctx, testutil.CreateTestAccountRecord("kept", 5, ""))
	require.NoError(t, err)
	uow.EventBus().Publish(events.AccountCreatedEvent{AccountID: created.ID})
	require.NoError(t, uow.Commit())

	select {
	case event := <-received:
		assert.Equal(t, created.ID, event.(events.AccountCreatedEvent).AccountID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered after commit")
	}
}

func TestTransferService_PostgresEndToEnd(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	hasher := testutil.NewTestHasher()
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	accounts := service.NewAccountService(factory, hasher)
	transfers := service.NewTransferService(factory, hasher)

	x, err := accounts.CreateAccount(ctx, testutil.CreateTestAccountParams("x", 10, "pw"))
	require.NoError(t, err)
	y, err := accounts.CreateAccount(ctx, testutil.CreateTestAccountParams("y", 10, ""))
	require.NoError(t, err)

	result, err := transfers.Transfer(ctx, models.TransferRequest{SenderID: x.ID, ReceiverID: y.ID, Amount: 6, Credential: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &models.TransferResult{SenderID: x.ID, ReceiverID: y.ID, Amount: 6}, result)

	_, err = transfers.Transfer(ctx, models.TransferRequest{SenderID: x.ID, ReceiverID: y.ID, Amount: 6, Credential: "pw"})
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)

	gotX, err := accounts.GetAccount(ctx, x.ID)
	require.NoError(t, err)
	gotY, err := accounts.GetAccount(ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), gotX.Balance)
	assert.Equal(t, int64(16), gotY.Balance)
}

func TestTransferService_PostgresOppositeDirections(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	hasher := testutil.NewTestHasher()
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	accounts := service.NewAccountService(factory, hasher)
	transfers := service.NewTransferService(factory, hasher)

	a, err := accounts.CreateAccount(ctx, testutil.CreateTestAccountParams("a", 1000, ""))
	require.NoError(t, err)
	b, err := accounts.CreateAccount(ctx, testutil.CreateTestAccountParams("b", 1000, ""))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := transfers.Transfer(ctx, models.TransferRequest{SenderID: a.ID, ReceiverID: b.ID, Amount: 3})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := transfers.Transfer(ctx, models.TransferRequest{SenderID: b.ID, ReceiverID: a.ID, Amount: 2})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, service.ErrInsufficientFunds) {
			t.Fatalf("unexpected transfer error: %v", err)
		}
	}

	gotA, err := accounts.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := accounts.GetAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), gotA.Balance+gotB.Balance)
	assert.Equal(t, int64(1000-150+100), gotA.Balance)
}
