package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/axion/internal/core/domain"
)

func newTestApp(t *testing.T, kv *mockKV, repo *mockProductRepo) *App {
	t.Helper()

	app := NewApp(kv, repo, Options{SyncHold: 20 * time.Millisecond, QueueSize: 8, Elasticity: 1.5})
	t.Cleanup(app.Close)

	require.NoError(t, app.Start(context.Background(), domain.DefaultProducts()))
	return app
}

func loggedInApp(t *testing.T) (*App, *mockKV, *mockProductRepo) {
	t.Helper()

	kv, repo := newMockKV(), newMockProductRepo()
	app := newTestApp(t, kv, repo)
	require.NoError(t, app.Login(context.Background(), true))
	require.NoError(t, app.Flush(context.Background()))
	return app, kv, repo
}

func TestApp_LoggedOutGatesEverything(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	app := newTestApp(t, kv, repo)

	assert.False(t, app.Authenticated())
	assert.Equal(t, State{}, app.State())

	_, err := app.Products()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, app.AddProduct(domain.Product{ID: "x"}), ErrNotAuthenticated)
	_, err = app.RequestRemoval("1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, app.Navigate(domain.ViewInventory), ErrNotAuthenticated)

	// nothing is written while logged out
	require.NoError(t, app.Flush(context.Background()))
	assert.Empty(t, repo.savesSnapshot())
}

func TestApp_LoginPersistsCurrentList(t *testing.T) {
	app, kv, repo := loggedInApp(t)

	assert.True(t, app.Authenticated())
	assert.Equal(t, "true", kv.entries["axion_session"])

	saves := repo.savesSnapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, domain.DefaultProducts(), saves[0])
}

func TestApp_FailedLoginLeavesStateUnchanged(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	app := newTestApp(t, kv, repo)

	require.NoError(t, app.Login(context.Background(), false))

	assert.False(t, app.Authenticated())
	assert.Empty(t, kv.entries)
}

func TestApp_RestoresSessionAndListOnStart(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	kv.entries["axion_session"] = "true"
	repo.stored = []domain.Product{{ID: "kept"}}
	repo.hasValue = true

	app := newTestApp(t, kv, repo)

	assert.True(t, app.Authenticated())
	products, err := app.Products()
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids(products))
}

func TestApp_StartFallsBackToDefaultsOnLoadError(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	repo.stored = []domain.Product{{ID: "user-added", Name: "Meu produto"}}
	repo.hasValue = true
	repo.getErr = errors.New("redis: i/o timeout")
	kv.entries["axion_session"] = "true"

	app := newTestApp(t, kv, repo)
	ctx := context.Background()

	products, err := app.Products()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProducts(), products)

	// Neither startup nor a fresh login may overwrite the stored list
	require.NoError(t, app.Login(ctx, true))
	require.NoError(t, app.Flush(ctx))
	assert.Empty(t, repo.savesSnapshot())
	assert.Equal(t, []string{"user-added"}, ids(repo.storedSnapshot()))
}

func TestApp_LoadErrorPersistsOnFirstMutation(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	repo.getErr = errors.New("redis: i/o timeout")
	kv.entries["axion_session"] = "true"

	app := newTestApp(t, kv, repo)
	ctx := context.Background()

	require.NoError(t, app.AddProduct(domain.Product{ID: "new"}))
	require.NoError(t, app.Flush(ctx))

	saves := repo.savesSnapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "new", saves[0][0].ID)
	assert.Len(t, saves[0], 8)
}

func TestApp_AddAndConfirmedRemovePersist(t *testing.T) {
	app, _, repo := loggedInApp(t)
	ctx := context.Background()

	require.NoError(t, app.AddProduct(domain.Product{ID: "new", Name: "Novo"}))

	conf, err := app.RequestRemoval("2")
	require.NoError(t, err)
	assert.Equal(t, "2", conf.ProductID)
	assert.NotEmpty(t, conf.Token)

	removed, err := app.ResolveRemoval(conf.Token, true)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, app.Flush(ctx))

	products, _ := app.Products()
	assert.Equal(t, []string{"new", "1", "3", "4", "5", "6", "7"}, ids(products))
	assert.Equal(t, ids(products), ids(repo.storedSnapshot()))

	// login write + add + remove
	assert.Len(t, repo.savesSnapshot(), 3)
}

func TestApp_DeclinedRemovalIsNoop(t *testing.T) {
	app, _, repo := loggedInApp(t)

	conf, err := app.RequestRemoval("1")
	require.NoError(t, err)

	removed, err := app.ResolveRemoval(conf.Token, false)
	require.NoError(t, err)
	assert.False(t, removed)

	products, _ := app.Products()
	assert.Len(t, products, 7)

	require.NoError(t, app.Flush(context.Background()))
	assert.Len(t, repo.savesSnapshot(), 1)

	// tokens are one-shot
	_, err = app.ResolveRemoval(conf.Token, true)
	assert.ErrorIs(t, err, ErrUnknownConfirmation)
}

func TestApp_ConfirmedRemovalOfMissingProduct(t *testing.T) {
	app, _, _ := loggedInApp(t)

	conf, _ := app.RequestRemoval("ghost")
	removed, err := app.ResolveRemoval(conf.Token, true)

	require.NoError(t, err)
	assert.False(t, removed)
}

func TestApp_RemovingLastProductPersistsEmptyList(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	kv.entries["axion_session"] = "true"
	repo.stored = []domain.Product{{ID: "only"}}
	repo.hasValue = true

	app := newTestApp(t, kv, repo)

	conf, _ := app.RequestRemoval("only")
	_, err := app.ResolveRemoval(conf.Token, true)
	require.NoError(t, err)
	require.NoError(t, app.Flush(context.Background()))

	assert.Empty(t, repo.storedSnapshot())
}

func TestApp_LogoutStopsPersistence(t *testing.T) {
	app, kv, repo := loggedInApp(t)
	ctx := context.Background()

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.Authenticated())
	_, ok := kv.entries["axion_session"]
	assert.False(t, ok)

	assert.ErrorIs(t, app.AddProduct(domain.Product{ID: "x"}), ErrNotAuthenticated)
	require.NoError(t, app.Flush(ctx))
	assert.Len(t, repo.savesSnapshot(), 1)
}

func TestApp_OpenSimulator(t *testing.T) {
	app, _, _ := loggedInApp(t)

	_, err := app.OpenSimulator("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	view, err := app.OpenSimulator("3")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewSimulator, view.Active)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "3", view.Selected.ID)

	sim, err := app.Simulate(nil)
	require.NoError(t, err)
	require.NotNil(t, sim.Prediction)
	assert.Equal(t, "3", sim.Product.ID)
	assert.Len(t, sim.Prediction.Simulations, 5)
	assert.Len(t, sim.Products, 7)
}

func TestApp_SimulateWithoutSelection(t *testing.T) {
	app, _, _ := loggedInApp(t)

	sim, err := app.Simulate(nil)
	require.NoError(t, err)
	assert.Nil(t, sim.Product)
	assert.Nil(t, sim.Prediction)
}

func TestApp_SyncIndicatorFollowsWrites(t *testing.T) {
	kv, repo := newMockKV(), newMockProductRepo()
	repo.delay = 30 * time.Millisecond
	app := newTestApp(t, kv, repo)

	require.NoError(t, app.Login(context.Background(), true))
	assert.True(t, app.SyncStatus().Syncing)

	require.NoError(t, app.Flush(context.Background()))
	assert.True(t, app.SyncStatus().Syncing, "held after completion")

	assert.Eventually(t, func() bool { return !app.SyncStatus().Syncing }, time.Second, 5*time.Millisecond)
	assert.NotNil(t, app.SyncStatus().LastSyncedAt)
}

func TestApp_StateWhileLoggedIn(t *testing.T) {
	app, _, _ := loggedInApp(t)

	require.NoError(t, app.Navigate(domain.ViewInventory))

	st := app.State()
	assert.True(t, st.Authenticated)
	require.NotNil(t, st.View)
	assert.Equal(t, domain.ViewInventory, st.View.Active)
	assert.Equal(t, 7, st.ProductCount)

	summary, err := app.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 7, summary.ProductCount)
}
