package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/rariteth/go-cart/internal/domain"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb", MongoOptions{})
	require.NoError(t, err)

	repo := NewMongoRepository(db, "cart")
	require.NoError(t, EnsureIndexes(ctx, repo))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

type repoBuyable struct {
	id    int64
	name  string
	price float64
}

func (b repoBuyable) BuyableIdentifier(domain.Options) int64 { return b.id }
func (b repoBuyable) BuyableName(domain.Options) string      { return b.name }
func (b repoBuyable) BuyablePrice(domain.Options) float64    { return b.price }

func testItems(t *testing.T, qty int) domain.Collection {
	t.Helper()
	item, err := domain.NewItem(repoBuyable{1, "Widget", 10.00}, domain.Options{}, false)
	require.NoError(t, err)
	item.Qty = qty
	return domain.Collection{item.RowID: item}
}

func testKey(identifier int64) Key {
	return Key{Identifier: identifier, Instance: "default", Guard: "web"}
}

func TestGet_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(context.Background(), testKey(1))
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestUpsert_CreatesAndReplaces(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	key := testKey(7)

	require.NoError(t, repo.Upsert(ctx, key, testItems(t, 2)))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count())

	require.NoError(t, repo.Upsert(ctx, key, testItems(t, 5)))

	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got.Count())
}

func TestUpsert_KeysAreIndependent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testKey(7), testItems(t, 2)))
	require.NoError(t, repo.Upsert(ctx, Key{Identifier: 7, Instance: "wishlist", Guard: "web"}, testItems(t, 9)))

	got, err := repo.Get(ctx, testKey(7))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count())
}

func TestInsert_DuplicateKeyFails(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	key := testKey(7)

	require.NoError(t, repo.Insert(ctx, key, testItems(t, 2)))

	err := repo.Insert(ctx, key, testItems(t, 5))
	assert.ErrorIs(t, err, ErrAlreadyStored)

	// The original record is untouched.
	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count())
}

func TestDelete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	key := testKey(7)

	require.NoError(t, repo.Upsert(ctx, key, testItems(t, 2)))
	require.NoError(t, repo.Delete(ctx, key))

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCartNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, key), ErrCartNotFound)
}

func TestExists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	key := testKey(7)

	exists, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Upsert(ctx, key, testItems(t, 2)))

	exists, err = repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRoundTrip_PreservesItemFields(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	key := testKey(7)

	item, err := domain.NewItem(
		repoBuyable{42, "Shirt", 25.00},
		domain.NewOptions(domain.Option{Key: "size", Value: "XL"}, domain.Option{Key: "color", Value: "red"}),
		false,
	)
	require.NoError(t, err)
	item.Qty = 3
	item.Authorized = true

	require.NoError(t, repo.Upsert(ctx, key, domain.Collection{item.RowID: item}))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)

	restored, ok := got.Get(item.RowID)
	require.True(t, ok)
	assert.Equal(t, int64(42), restored.Identifier)
	assert.Equal(t, "Shirt", restored.Name)
	assert.Equal(t, 3, restored.Qty)
	assert.Equal(t, 25.00, restored.Price)
	assert.True(t, restored.Authorized)
	assert.Equal(t, item.Options.Entries(), restored.Options.Entries())
}
