package fboclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDebounce is how long the editor waits after the last field edit
// before auto-saving.
const DefaultDebounce = 1500 * time.Millisecond

// ErrReadOnly is returned when editing a receipt past DRAFT.
var ErrReadOnly = errors.New("receipt is read-only")

// AutoSaveState describes the editor's save machinery.
type AutoSaveState int

const (
	AutoSaveIdle AutoSaveState = iota
	AutoSavePending
	AutoSaveSaving
	AutoSaveError
)

func (s AutoSaveState) String() string {
	switch s {
	case AutoSavePending:
		return "pending"
	case AutoSaveSaving:
		return "saving"
	case AutoSaveError:
		return "error"
	}
	return "idle"
}

// DraftEditor is a stateful receipt draft editor. Field setters apply
// optimistically to the local copy and are coalesced into a single debounced
// save; N rapid edits produce one PATCH (or one create for a draft that has
// never been persisted). At most one save is in flight at a time; edits made
// during a save queue up and trigger a follow-up flush when it completes.
//
// A failed save leaves the edits queued and sets AutoSaveError. There is no
// automatic retry: the next edit re-arms the timer, or the caller can Flush.
type DraftEditor struct {
	client *Client

	mu        sync.Mutex
	saveDone  *sync.Cond // signaled when an in-flight save completes
	receipt   *Receipt
	persisted bool
	pending   map[string]interface{}
	timer     *time.Timer
	inFlight  bool
	followUp  bool
	state     AutoSaveState
	err       error

	debounce    time.Duration
	onPersisted func(uuid.UUID)
}

// DraftOption configures a DraftEditor.
type DraftOption func(*DraftEditor)

// WithDebounce overrides the auto-save debounce interval.
func WithDebounce(d time.Duration) DraftOption {
	return func(e *DraftEditor) { e.debounce = d }
}

// WithOnPersisted registers a callback fired once, when a locally created
// draft is first persisted and receives its server ID.
func WithOnPersisted(fn func(uuid.UUID)) DraftOption {
	return func(e *DraftEditor) { e.onPersisted = fn }
}

// NewDraftEditor creates a draft editor over the given client.
func NewDraftEditor(client *Client, opts ...DraftOption) *DraftEditor {
	e := &DraftEditor{
		client:   client,
		pending:  make(map[string]interface{}),
		debounce: DefaultDebounce,
	}
	e.saveDone = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load initializes the editor. A nil id synthesizes a local, unsaved DRAFT
// that will be created on the first flush; otherwise the receipt is fetched.
// A fetch failure is exposed via Err and is not retried.
func (e *DraftEditor) Load(ctx context.Context, id *uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = make(map[string]interface{})
	e.state = AutoSaveIdle
	e.stopTimer()

	if id == nil {
		e.receipt = &Receipt{
			Status:           StatusDraft,
			FuelQuantity:     decimal.Zero,
			FuelPricePerUnit: decimal.Zero,
		}
		e.persisted = false
		e.err = nil
		return nil
	}

	e.mu.Unlock()
	receipt, err := e.client.GetReceipt(ctx, *id)
	e.mu.Lock()

	if err != nil {
		e.receipt = nil
		e.persisted = false
		e.err = err
		return err
	}

	e.receipt = receipt
	e.persisted = true
	e.err = nil
	return nil
}

// Receipt returns a copy of the editor's current view of the draft, including
// unsaved optimistic edits. Returns nil before a successful Load.
func (e *DraftEditor) Receipt() *Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.receipt == nil {
		return nil
	}
	copied := *e.receipt
	return &copied
}

// ID returns the server ID, or nil while the draft exists only locally.
func (e *DraftEditor) ID() *uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.persisted || e.receipt == nil {
		return nil
	}
	id := e.receipt.ID
	return &id
}

// IsReadOnly reports whether the receipt can no longer be edited.
func (e *DraftEditor) IsReadOnly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.receipt != nil && e.receipt.IsReadOnly()
}

// Err returns the most recent load, auto-save, or action error. It is cleared
// by the next successful call.
func (e *DraftEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// AutoSaveState returns the current save machinery state.
func (e *DraftEditor) AutoSaveState() AutoSaveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetCustomer changes the customer.
func (e *DraftEditor) SetCustomer(id uuid.UUID) error {
	return e.set("customer_id", id)
}

// SetAircraftType changes the aircraft type.
func (e *DraftEditor) SetAircraftType(id uuid.UUID) error {
	return e.set("aircraft_type_id", id)
}

// SetTailNumber changes the tail number.
func (e *DraftEditor) SetTailNumber(tailNumber string) error {
	return e.set("tail_number", tailNumber)
}

// SetCAAMember changes the CAA membership flag for this visit.
func (e *DraftEditor) SetCAAMember(isMember bool) error {
	return e.set("is_caa_member", isMember)
}

// SetFuelType changes the fuel type.
func (e *DraftEditor) SetFuelType(id uuid.UUID) error {
	return e.set("fuel_type_id", id)
}

// SetFuelQuantity changes the uplifted fuel quantity.
func (e *DraftEditor) SetFuelQuantity(quantity decimal.Decimal) error {
	return e.set("fuel_quantity", quantity)
}

// SetFuelPricePerUnit changes the snapshotted fuel price.
func (e *DraftEditor) SetFuelPricePerUnit(price decimal.Decimal) error {
	return e.set("fuel_price_per_unit", price)
}

// SetNotes changes the free-form notes.
func (e *DraftEditor) SetNotes(notes string) error {
	return e.set("notes", notes)
}

// set applies the field optimistically, queues it, and re-arms the debounce
// timer.
func (e *DraftEditor) set(field string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.receipt == nil {
		return errors.New("editor not loaded")
	}
	if e.receipt.IsReadOnly() {
		return ErrReadOnly
	}

	applyField(e.receipt, field, value)
	e.pending[field] = value
	if e.state != AutoSaveSaving {
		e.state = AutoSavePending
	}
	e.armTimer()
	return nil
}

// applyField mirrors a queued update onto the local receipt copy.
func applyField(r *Receipt, field string, value interface{}) {
	switch field {
	case "customer_id":
		r.CustomerID = value.(uuid.UUID)
		r.Customer = nil
	case "aircraft_type_id":
		id := value.(uuid.UUID)
		r.AircraftTypeID = &id
		r.AircraftType = nil
	case "tail_number":
		r.TailNumber = value.(string)
	case "is_caa_member":
		r.IsCAAMember = value.(bool)
	case "fuel_type_id":
		id := value.(uuid.UUID)
		r.FuelTypeID = &id
		r.FuelType = nil
	case "fuel_quantity":
		r.FuelQuantity = value.(decimal.Decimal)
	case "fuel_price_per_unit":
		r.FuelPricePerUnit = value.(decimal.Decimal)
	case "notes":
		r.Notes = value.(string)
	}
}

// armTimer resets the debounce timer. Caller holds the lock.
func (e *DraftEditor) armTimer() {
	e.stopTimer()
	e.timer = time.AfterFunc(e.debounce, func() {
		// Timer-driven flushes run detached from any caller context.
		_ = e.flush(context.Background())
	})
}

// stopTimer cancels a pending auto-save. Caller holds the lock.
func (e *DraftEditor) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Flush saves all pending edits immediately, bypassing the debounce timer.
func (e *DraftEditor) Flush(ctx context.Context) error {
	e.mu.Lock()
	e.stopTimer()
	e.mu.Unlock()
	return e.flush(ctx)
}

// flush performs one save round. If a save is already in flight it queues a
// follow-up and blocks until the machinery drains, so callers (ensureSaved in
// particular) never proceed while edits are still unsent.
func (e *DraftEditor) flush(ctx context.Context) error {
	e.mu.Lock()

	for e.inFlight {
		e.followUp = true
		e.saveDone.Wait()
	}
	if len(e.pending) == 0 && e.persisted {
		if e.state == AutoSavePending {
			e.state = AutoSaveIdle
		}
		e.mu.Unlock()
		return nil
	}
	if e.receipt == nil {
		e.mu.Unlock()
		return errors.New("editor not loaded")
	}

	batch := e.pending
	e.pending = make(map[string]interface{})
	wasPersisted := e.persisted
	receiptID := e.receipt.ID
	e.inFlight = true
	e.state = AutoSaveSaving
	e.mu.Unlock()

	var saved *Receipt
	var err error
	if wasPersisted {
		saved, err = e.client.UpdateReceipt(ctx, receiptID, batch)
	} else {
		saved, err = e.client.CreateReceipt(ctx, batch)
	}

	e.mu.Lock()
	e.inFlight = false

	if err != nil {
		// Requeue the failed batch beneath any edits made during the flight;
		// newer values win. No automatic retry.
		for field, value := range batch {
			if _, newer := e.pending[field]; !newer {
				e.pending[field] = value
			}
		}
		e.followUp = false
		e.state = AutoSaveError
		e.err = err
		e.saveDone.Broadcast()
		e.mu.Unlock()
		return err
	}

	firstPersist := !wasPersisted
	e.persisted = true
	e.err = nil
	e.receipt = saved
	// Re-apply edits queued during the flight so the local view stays
	// optimistic until the follow-up save lands.
	for field, value := range e.pending {
		applyField(e.receipt, field, value)
	}

	needFollowUp := e.followUp || len(e.pending) > 0
	e.followUp = false
	if len(e.pending) > 0 {
		e.state = AutoSavePending
	} else {
		e.state = AutoSaveIdle
	}
	callback := e.onPersisted
	savedID := saved.ID
	e.saveDone.Broadcast()
	e.mu.Unlock()

	if firstPersist && callback != nil {
		callback(savedID)
	}
	if needFollowUp {
		return e.flush(ctx)
	}
	return nil
}

// ensureSaved flushes outstanding edits so line item and lifecycle calls hit
// server state that matches the local view.
func (e *DraftEditor) ensureSaved(ctx context.Context) error {
	e.mu.Lock()
	dirty := !e.persisted || len(e.pending) > 0 || e.inFlight
	e.mu.Unlock()
	if !dirty {
		return nil
	}
	return e.Flush(ctx)
}

// desiredFees returns the current FEE set with the given mutation applied.
func (e *DraftEditor) desiredFees(mutate func([]FeeLine) []FeeLine) []FeeLine {
	e.mu.Lock()
	defer e.mu.Unlock()

	fees := make([]FeeLine, 0)
	if e.receipt != nil {
		for _, li := range e.receipt.FeeLines() {
			fees = append(fees, FeeLine{FeeCode: li.FeeCode, Quantity: li.Quantity})
		}
	}
	return mutate(fees)
}

// AddLineItem adds a fee to the receipt and recomputes all line items.
func (e *DraftEditor) AddLineItem(ctx context.Context, feeCode string, quantity decimal.Decimal) error {
	fees := e.desiredFees(func(fees []FeeLine) []FeeLine {
		for i := range fees {
			if fees[i].FeeCode == feeCode {
				fees[i].Quantity = quantity
				return fees
			}
		}
		return append(fees, FeeLine{FeeCode: feeCode, Quantity: quantity})
	})
	return e.recalculate(ctx, fees)
}

// RemoveLineItem drops a fee (and any waiver offsetting it) from the receipt.
func (e *DraftEditor) RemoveLineItem(ctx context.Context, feeCode string) error {
	fees := e.desiredFees(func(fees []FeeLine) []FeeLine {
		kept := fees[:0]
		for _, fee := range fees {
			if fee.FeeCode != feeCode {
				kept = append(kept, fee)
			}
		}
		return kept
	})
	return e.recalculate(ctx, fees)
}

// UpdateLineItemQuantity changes a fee's quantity and recomputes.
func (e *DraftEditor) UpdateLineItemQuantity(ctx context.Context, feeCode string, quantity decimal.Decimal) error {
	fees := e.desiredFees(func(fees []FeeLine) []FeeLine {
		for i := range fees {
			if fees[i].FeeCode == feeCode {
				fees[i].Quantity = quantity
			}
		}
		return fees
	})
	return e.recalculate(ctx, fees)
}

func (e *DraftEditor) recalculate(ctx context.Context, fees []FeeLine) error {
	if err := e.ensureSaved(ctx); err != nil {
		return err
	}
	return e.action(ctx, func(id uuid.UUID) (*Receipt, error) {
		return e.client.CalculateFees(ctx, id, fees)
	})
}

// ToggleWaiver flips the waiver for a fee line item.
func (e *DraftEditor) ToggleWaiver(ctx context.Context, lineItemID uuid.UUID) error {
	if err := e.ensureSaved(ctx); err != nil {
		return err
	}
	return e.action(ctx, func(id uuid.UUID) (*Receipt, error) {
		return e.client.ToggleWaiver(ctx, id, lineItemID)
	})
}

// Generate finalizes the draft; the server assigns the receipt number.
func (e *DraftEditor) Generate(ctx context.Context) error {
	if err := e.ensureSaved(ctx); err != nil {
		return err
	}
	return e.action(ctx, func(id uuid.UUID) (*Receipt, error) {
		return e.client.GenerateReceipt(ctx, id)
	})
}

// MarkPaid records payment on the generated receipt.
func (e *DraftEditor) MarkPaid(ctx context.Context, paymentMethod string) error {
	return e.action(ctx, func(id uuid.UUID) (*Receipt, error) {
		return e.client.MarkReceiptPaid(ctx, id, paymentMethod)
	})
}

// Void voids the receipt with the given reason.
func (e *DraftEditor) Void(ctx context.Context, reason string) error {
	return e.action(ctx, func(id uuid.UUID) (*Receipt, error) {
		return e.client.VoidReceipt(ctx, id, reason)
	})
}

// action runs an endpoint call against the persisted receipt and replaces the
// local state with the authoritative response.
func (e *DraftEditor) action(ctx context.Context, call func(uuid.UUID) (*Receipt, error)) error {
	e.mu.Lock()
	if e.receipt == nil || !e.persisted {
		e.mu.Unlock()
		return errors.New("receipt has not been saved")
	}
	id := e.receipt.ID
	e.mu.Unlock()

	saved, err := call(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.err = err
		return err
	}
	e.receipt = saved
	e.err = nil
	return nil
}
