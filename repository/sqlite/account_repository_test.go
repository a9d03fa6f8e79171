package sqlite

import (
	"context"
	"testing"

	"ledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupSQLiteDatabase(t)
	repo := NewAccountRepository(db.DB)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 12345)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("round trip", func(t *testing.T) {
		record := testutil.CreateTestAccountRecord("alice", 10, "secret")
		created, err := repo.Create(ctx, record)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, int64(10), account.Balance)
		assert.Equal(t, record.CredentialHash, account.CredentialHash)
		assert.Equal(t, "alice@example.com", account.Contact)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("ids increase by one", func(t *testing.T) {
		first, err := repo.Create(ctx, testutil.CreateTestAccountRecord("first", 0, ""))
		require.NoError(t, err)
		second, err := repo.Create(ctx, testutil.CreateTestAccountRecord("second", 0, ""))
		require.NoError(t, err)
		assert.Equal(t, first.ID+1, second.ID)
	})

	t.Run("deleted ids are not reused", func(t *testing.T) {
		created, err := repo.Create(ctx, testutil.CreateTestAccountRecord("temp", 0, ""))
		require.NoError(t, err)
		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		next, err := repo.Create(ctx, testutil.CreateTestAccountRecord("next", 0, ""))
		require.NoError(t, err)
		assert.Equal(t, created.ID+1, next.ID)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, testutil.CreateTestAccountRecord("neg", -5, ""))
		assert.Error(t, err)
	})
}

func TestAccountRepository_ListUpdateDelete(t *testing.T) {
	db := testutil.SetupSQLiteDatabase(t)
	repo := NewAccountRepository(db.DB)
	ctx := context.Background()

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)

	a, err := repo.Create(ctx, testutil.CreateTestAccountRecord("zed", 1, ""))
	require.NoError(t, err)
	b, err := repo.Create(ctx, testutil.CreateTestAccountRecord("amy", 2, ""))
	require.NoError(t, err)

	accounts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, a.ID, accounts[0].ID)
	assert.Equal(t, "zed", accounts[0].Username)
	assert.Equal(t, b.ID, accounts[1].ID)

	replacement := testutil.CreateTestAccountRecord("amy2", 20, "pw")
	updated, err := repo.Update(ctx, b.ID, replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "amy2", updated.Username)
	assert.Equal(t, int64(20), updated.Balance)
	assert.Equal(t, replacement.CredentialHash, updated.CredentialHash)

	missing, err := repo.Update(ctx, 999, replacement)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.UpdateBalance(ctx, a.ID, 99))
	assert.Error(t, repo.UpdateBalance(ctx, 999, 1))

	deleted, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, int64(99), deleted.Balance)

	gone, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAccountRepository_GetByIDsForUpdate(t *testing.T) {
	db := testutil.SetupSQLiteDatabase(t)
	repo := NewAccountRepository(db.DB)
	ctx := context.Background()

	a, err := repo.Create(ctx, testutil.CreateTestAccountRecord("a", 1, ""))
	require.NoError(t, err)
	b, err := repo.Create(ctx, testutil.CreateTestAccountRecord("b", 2, ""))
	require.NoError(t, err)

	accounts, err := repo.GetByIDsForUpdate(ctx, b.ID, a.ID, 777)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[a.ID].Balance)
	assert.Equal(t, int64(2), accounts[b.ID].Balance)

	empty, err := repo.GetByIDsForUpdate(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
