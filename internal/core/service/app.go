package service

import (
	"context"
	"errors"
	"time"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/port"
	logx "github.com/rl1809/axion/pkg/logger"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrProductNotFound     = errors.New("product not found")
	ErrUnknownConfirmation = errors.New("unknown confirmation")
)

type Options struct {
	KeyPrefix      string
	SyncHold       time.Duration
	QueueSize      int
	PersistTimeout time.Duration
	Elasticity     float64
	Metrics        Metrics
}

// State is what the shell renders from. View and Syncing are only set while
// authenticated.
type State struct {
	Authenticated bool              `json:"authenticated"`
	View          *domain.ViewState `json:"view,omitempty"`
	Syncing       bool              `json:"syncing"`
	ProductCount  int               `json:"productCount"`
}

type SimulatorView struct {
	Product    *domain.Product          `json:"product,omitempty"`
	Products   []domain.Product         `json:"products"`
	Prediction *domain.DemandPrediction `json:"prediction,omitempty"`
}

// App owns the workspace state: session gate, product list, view router and
// the persistence pipeline behind the sync indicator.
type App struct {
	gate          *SessionGate
	store         *ProductStore
	router        *ViewRouter
	indicator     *SyncIndicator
	queue         *PersistQueue
	confirmations *RemovalConfirmations
	simulator     *Simulator
	metrics       Metrics
}

func NewApp(kv port.KVStore, repo port.ProductRepository, opts Options) *App {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}

	indicator := NewSyncIndicator(opts.SyncHold)

	a := &App{
		gate:          NewSessionGate(kv, opts.KeyPrefix),
		store:         NewProductStore(repo),
		router:        NewViewRouter(),
		indicator:     indicator,
		queue:         NewPersistQueue(repo, indicator, opts.QueueSize, opts.PersistTimeout, opts.Metrics),
		confirmations: NewRemovalConfirmations(),
		simulator:     NewSimulator(opts.Elasticity),
		metrics:       opts.Metrics,
	}

	a.store.OnChange(func(products []domain.Product) {
		if a.gate.Authenticated() {
			a.queue.Enqueue(products)
		}
	})

	return a
}

// Start restores the session marker and the product list. When the list
// cannot be read, defaults are shown but not written back until the first
// add or remove.
func (a *App) Start(ctx context.Context, defaults []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.gate.Load(ctx); err != nil {
		logx.Warn().Err(err).Msg("session marker unavailable, starting logged out")
	}

	products, err := a.store.Load(ctx, defaults)
	if err != nil {
		logx.Warn().Err(err).Msg("product list unavailable, showing defaults without persisting")
		a.store.Seed(defaults)
		products = a.store.Products()
	}

	logx.Info().Bool("authenticated", a.gate.Authenticated()).Int("products", len(products)).Msg("workspace loaded")
	return nil
}

func (a *App) Authenticated() bool {
	return a.gate.Authenticated()
}

// Login applies the outcome of a login attempt. On success the current list
// is persisted, mirroring a change of the session flag.
func (a *App) Login(ctx context.Context, success bool) error {
	if !success {
		return nil
	}

	if err := a.gate.Login(ctx, true); err != nil {
		logx.Warn().Err(err).Msg("session marker not persisted")
	}
	a.store.Resync()
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.confirmations.Clear()
	if err := a.gate.Logout(ctx); err != nil {
		logx.Warn().Err(err).Msg("session marker not removed")
	}
	return nil
}

func (a *App) State() State {
	if !a.gate.Authenticated() {
		return State{}
	}

	view := a.router.State()
	return State{
		Authenticated: true,
		View:          &view,
		Syncing:       a.indicator.Syncing(),
		ProductCount:  len(a.store.Products()),
	}
}

func (a *App) Products() ([]domain.Product, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.store.Products(), nil
}

func (a *App) FilterProducts(query, category string) ([]domain.Product, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.store.Filter(query, category), nil
}

func (a *App) Categories() ([]string, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a.store.Categories(), nil
}

// AddProduct prepends product. The caller supplies a non-colliding id.
func (a *App) AddProduct(product domain.Product) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	a.store.Add(product)
	a.metrics.ObserveMutation("add")
	return nil
}

// RequestRemoval opens a confirmation for deleting id. Nothing changes until
// ResolveRemoval confirms it.
func (a *App) RequestRemoval(id string) (Confirmation, error) {
	if err := a.requireSession(); err != nil {
		return Confirmation{}, err
	}
	return a.confirmations.Request(id), nil
}

// ResolveRemoval answers a confirmation. Declining, or confirming an id that
// is no longer present, leaves the list unchanged.
func (a *App) ResolveRemoval(token string, confirmed bool) (bool, error) {
	if err := a.requireSession(); err != nil {
		return false, err
	}

	id, ok := a.confirmations.Resolve(token)
	if !ok {
		return false, ErrUnknownConfirmation
	}
	if !confirmed {
		return false, nil
	}

	removed := a.store.Remove(id)
	if removed {
		a.metrics.ObserveMutation("remove")
	}
	return removed, nil
}

func (a *App) Navigate(view domain.View) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	return a.router.SetActive(view)
}

func (a *App) NavigateToSimulator(product domain.Product) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	a.router.NavigateToSimulator(product)
	return nil
}

// OpenSimulator looks id up in the list and navigates to the simulator with it.
func (a *App) OpenSimulator(id string) (domain.ViewState, error) {
	if err := a.requireSession(); err != nil {
		return domain.ViewState{}, err
	}

	product, ok := a.store.Find(id)
	if !ok {
		return domain.ViewState{}, ErrProductNotFound
	}

	a.router.NavigateToSimulator(product)
	return a.router.State(), nil
}

func (a *App) ViewState() (domain.ViewState, error) {
	if err := a.requireSession(); err != nil {
		return domain.ViewState{}, err
	}
	return a.router.State(), nil
}

// Simulate returns the simulator screen for the selected product. Without a
// selection there is no prediction.
func (a *App) Simulate(prices []float64) (SimulatorView, error) {
	if err := a.requireSession(); err != nil {
		return SimulatorView{}, err
	}

	view := SimulatorView{Products: a.store.Products()}
	if sel := a.router.State().Selected; sel != nil {
		prediction := a.simulator.Predict(*sel, prices)
		view.Product = sel
		view.Prediction = &prediction
	}
	return view, nil
}

func (a *App) Dashboard() (domain.DashboardSummary, error) {
	if err := a.requireSession(); err != nil {
		return domain.DashboardSummary{}, err
	}
	return domain.Summarize(a.store.Products()), nil
}

func (a *App) SyncStatus() SyncStatus {
	return a.indicator.Status()
}

// Flush waits for every write issued so far.
func (a *App) Flush(ctx context.Context) error {
	return a.queue.Flush(ctx)
}

// Close drains pending writes and stops the indicator.
func (a *App) Close() {
	a.queue.Close()
	a.indicator.Stop()
}

func (a *App) requireSession() error {
	if !a.gate.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
