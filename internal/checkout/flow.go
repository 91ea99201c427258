package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/internal/cart"
	"github.com/angelmondragon/stride-storefront/internal/notifications"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

var (
	ErrSubmitInProgress = errors.New("checkout: submission already in progress")
	ErrNotConfirmed     = errors.New("checkout: submit is only available on the confirmation step")
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrNoOrderNumber    = errors.New("checkout: order response carried no order number")
)

// OrderCreator submits an order. The idempotency key is stable across retries of
// the same payload.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req types.OrderRequest, idempotencyKey string) (*types.OrderCreated, error)
}

// CartSource is the part of the cart store checkout reads and clears.
type CartSource interface {
	Snapshot() cart.State
	Clear(ctx context.Context) cart.State
}

// Flow walks a customer through contact, shipping and confirmation, then
// submits the order built from the cart.
type Flow struct {
	mu   sync.Mutex
	step Step
	form Form

	submitting    atomic.Bool
	pendingKey    string
	pendingHash   string
	pendingLoaded bool

	cart     CartSource
	orders   OrderCreator
	notifier notifications.Notifier
	pending  PendingStore
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	newKey   func() string
}

// Option customizes a Flow.
type Option func(*Flow)

func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(f *Flow) { f.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logg = l
		}
	}
}

// WithPendingStore keeps the idempotency key of an unconfirmed submission in
// store, so retries from a later flow reuse it.
func WithPendingStore(store PendingStore) Option {
	return func(f *Flow) { f.pending = store }
}

// WithKeyGenerator overrides how idempotency keys are minted.
func WithKeyGenerator(gen func() string) Option {
	return func(f *Flow) {
		if gen != nil {
			f.newKey = gen
		}
	}
}

func NewFlow(source CartSource, orders OrderCreator, notifier notifications.Notifier, opts ...Option) (*Flow, error) {
	if source == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	f := &Flow{
		step:     StepContact,
		form:     NewForm(),
		cart:     source,
		orders:   orders,
		notifier: notifier,
		logg:     logger.Nop(),
		newKey:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Submitting reports whether an order call is in flight.
func (f *Flow) Submitting() bool {
	return f.submitting.Load()
}

// Update edits the form in place.
func (f *Flow) Update(edit func(*Form)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	edit(&f.form)
}

// Next validates the current step and advances. On the confirmation step it
// does nothing.
func (f *Flow) Next(ctx context.Context) error {
	f.mu.Lock()
	if f.step >= StepConfirmation {
		f.mu.Unlock()
		return nil
	}
	err := ValidateStep(f.form, f.step)
	if err == nil {
		f.step++
	}
	f.mu.Unlock()

	if err != nil {
		f.rejectValidation(ctx, err)
	}
	return err
}

// Back moves one step back without validation, stopping at the first step.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepContact {
		f.step--
	}
}

// Submit re-validates contact and shipping, sends the order and, on success,
// clears the cart and resets the flow. On failure the cart, form and step are
// left as they were so the customer can retry.
func (f *Flow) Submit(ctx context.Context) (*types.OrderCreated, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		f.metrics.IncSubmission(metrics.OutcomeRejected)
		return nil, ErrSubmitInProgress
	}
	defer f.submitting.Store(false)

	req, key, err := f.prepare(ctx)
	switch {
	case errors.Is(err, ErrEmptyCart):
		f.metrics.IncSubmission(metrics.OutcomeRejected)
		f.notifier.Notify(ctx, enums.NotificationKindError, "Your cart is empty", "Add something to your cart before checking out.")
		return nil, err
	case err != nil:
		f.rejectValidation(ctx, err)
		return nil, err
	}

	ctx = f.logg.WithFields(ctx, map[string]any{"idempotency_key": key, "items": len(req.Items)})
	start := time.Now()
	created, err := f.orders.CreateOrder(ctx, req, key)
	f.metrics.ObserveSubmit(time.Since(start))
	if err == nil && (created == nil || created.OrderNumber == "") {
		err = ErrNoOrderNumber
	}
	if err != nil {
		f.metrics.IncSubmission(metrics.OutcomeFailure)
		f.logg.Error(ctx, "order submission failed", err)
		f.notifier.Notify(ctx, enums.NotificationKindError, "We could not place your order", err.Error())
		return nil, err
	}

	f.cart.Clear(ctx)
	f.mu.Lock()
	f.form = NewForm()
	f.step = StepContact
	f.pendingKey = ""
	f.pendingHash = ""
	f.mu.Unlock()
	if f.pending != nil {
		if err := f.pending.Clear(ctx); err != nil {
			f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "pending checkout not cleared")
		}
	}

	f.metrics.IncSubmission(metrics.OutcomeSuccess)
	f.logg.Info(f.logg.WithOrderNumber(ctx, created.OrderNumber), "order placed")
	f.notifier.Notify(ctx, enums.NotificationKindSuccess, "Order placed", fmt.Sprintf("Your order number is %s", created.OrderNumber))
	return created, nil
}

// prepare gates submission and assigns the idempotency key: reused while the
// payload is unchanged, rotated when it changes.
func (f *Flow) prepare(ctx context.Context) (types.OrderRequest, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepConfirmation {
		return types.OrderRequest{}, "", ErrNotConfirmed
	}
	for _, step := range []Step{StepContact, StepShipping, StepConfirmation} {
		if err := ValidateStep(f.form, step); err != nil {
			return types.OrderRequest{}, "", err
		}
	}
	snapshot := f.cart.Snapshot()
	if snapshot.IsEmpty() {
		return types.OrderRequest{}, "", ErrEmptyCart
	}

	req := BuildOrder(f.form, snapshot)
	hash := payloadHash(req)
	f.restorePending(ctx)
	if f.pendingKey == "" || hash != f.pendingHash {
		f.pendingKey = f.newKey()
		f.pendingHash = hash
		if f.pending != nil {
			if err := f.pending.Save(ctx, Pending{Key: f.pendingKey, Hash: hash}); err != nil {
				f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "pending checkout not saved")
			}
		}
	}
	return req, f.pendingKey, nil
}

// restorePending reads the stored submission once per flow. Caller holds mu.
func (f *Flow) restorePending(ctx context.Context) {
	if f.pending == nil || f.pendingLoaded {
		return
	}
	f.pendingLoaded = true
	p, err := f.pending.Load(ctx)
	if err != nil {
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "pending checkout unreadable, minting a new key")
		return
	}
	if f.pendingKey == "" {
		f.pendingKey = p.Key
		f.pendingHash = p.Hash
	}
}

func (f *Flow) rejectValidation(ctx context.Context, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return
	}
	f.metrics.IncValidationFailure(verr.Step.String())
	f.notifier.Notify(ctx, enums.NotificationKindError, "Please complete the required fields", err.Error())
}
