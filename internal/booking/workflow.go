package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"durianflight/pkg/logger"
)

type Stage string

const (
	StageLanding   Stage = "landing"
	StageSearching Stage = "searching"
	StageResults   Stage = "results"
	StageBooking   Stage = "booking"
	StageConfirmed Stage = "confirmed"
)

// Inventory is the external flight inventory and booking service the
// workflow orchestrates. Both calls are synchronous request-response
// operations; the workflow imposes no timeout or retry of its own.
type Inventory interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]Offer, error)
	Book(ctx context.Context, req BookingRequest) (string, error)
}

// Session is an observable snapshot of one workflow. Mutating it has no
// effect on the workflow itself.
type Session struct {
	Stage       Stage            `json:"stage"`
	Criteria    *SearchCriteria  `json:"criteria,omitempty"`
	Offers      []OfferView      `json:"offers,omitempty"`
	Selected    *OfferView       `json:"selected,omitempty"`
	Travelers   []TravelerRecord `json:"travelers,omitempty"`
	BookingCode string           `json:"booking_code,omitempty"`
	Busy        bool             `json:"busy"`
}

// Workflow is the booking state machine for one user session:
// landing -> searching -> results -> booking -> confirmed. Transitions are
// serialized; the two collaborator calls are the only points where the
// lock is released while a transition is in flight, with the busy flag set
// so duplicate submissions are rejected instead of queued. On any failure
// the machine returns to the stage it was attempting to leave.
type Workflow struct {
	mu          sync.Mutex
	stage       Stage
	criteria    *SearchCriteria
	offers      []OfferView
	selected    *OfferView
	form        *TravelerForm
	bookingCode string
	busy        bool

	inventory Inventory
	notifier  Notifier
	logger    logger.Client
	now       func() time.Time
}

func NewWorkflow(inventory Inventory, notifier Notifier, log logger.Client) *Workflow {
	return &Workflow{
		stage:     StageLanding,
		inventory: inventory,
		notifier:  notifier,
		logger:    log,
		now:       time.Now,
	}
}

// Session returns a copy of the current session state.
func (w *Workflow) Session() Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Session{
		Stage:       w.stage,
		Criteria:    w.criteria,
		Selected:    w.selected,
		BookingCode: w.bookingCode,
		Busy:        w.busy,
	}
	if len(w.offers) > 0 {
		s.Offers = make([]OfferView, len(w.offers))
		copy(s.Offers, w.offers)
	}
	if w.form != nil {
		s.Travelers = w.form.Records()
	}
	return s
}

func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// SubmitSearch validates the criteria and runs the inventory search. A
// non-empty result moves the session to the results stage; an empty result
// is not an error and leaves the session on landing with a warning notice.
func (w *Workflow) SubmitSearch(ctx context.Context, criteria SearchCriteria) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return NewBusyError("a search or booking is already in progress")
	}
	if w.stage != StageLanding {
		w.mu.Unlock()
		return NewValidationError("a search can only be submitted from the landing stage")
	}
	if err := criteria.validate(w.now()); err != nil {
		w.mu.Unlock()
		w.notifier.Notify(err.Error(), SeverityError)
		return err
	}
	w.criteria = &criteria
	w.stage = StageSearching
	w.busy = true
	w.mu.Unlock()

	offers, err := w.inventory.Search(ctx, criteria)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false

	if err != nil {
		w.stage = StageLanding
		w.criteria = nil
		w.logger.Error("flight search failed", logger.Field{Key: "err", Value: err.Error()})
		w.notifier.Notify(err.Error(), SeverityError)
		return NewProviderError(err.Error())
	}

	views, dropped, normErr := NormalizeOffers(offers)
	if len(dropped) > 0 {
		w.logger.Warn("malformed offers excluded from results",
			logger.Field{Key: "offer_ids", Value: dropped})
	}
	if normErr != nil {
		w.stage = StageLanding
		w.criteria = nil
		w.notifier.Notify(normErr.Error(), SeverityError)
		return normErr
	}
	if len(views) == 0 {
		w.stage = StageLanding
		w.criteria = nil
		w.notifier.Notify("no flights found for this route, try another date or route", SeverityWarning)
		return nil
	}
	if len(dropped) > 0 {
		w.notifier.Notify(fmt.Sprintf("%d offers could not be read and were skipped", len(dropped)), SeverityWarning)
	}

	w.offers = views
	w.stage = StageResults
	w.notifier.Notify(fmt.Sprintf("found %d flights", len(views)), SeveritySuccess)
	return nil
}

// SelectOffer moves the session from results into booking for one of the
// offers in the current result list, and initializes one traveler record
// per unit of offer capacity.
func (w *Workflow) SelectOffer(offerID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return NewBusyError("a search or booking is already in progress")
	}
	if w.stage != StageResults {
		return NewInvalidSelectionError("no search results to select from")
	}
	for i := range w.offers {
		if w.offers[i].Offer.ID == offerID {
			selected := w.offers[i]
			w.selected = &selected
			w.form = NewTravelerForm(selected.Capacity)
			w.stage = StageBooking
			return nil
		}
	}
	err := NewInvalidSelectionError("offer " + offerID + " is not in the current results")
	w.notifier.Notify(err.Message, SeverityError)
	return err
}

// UpdateTraveler replaces one field of one in-progress traveler record.
func (w *Workflow) UpdateTraveler(index int, field TravelerField, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return NewBusyError("a search or booking is already in progress")
	}
	if w.stage != StageBooking {
		return NewValidationError("no traveler form in progress")
	}
	return w.form.Update(index, field, value)
}

// ConfirmBooking assembles the booking request from the traveler form and
// submits it. On collaborator failure the session stays in booking with
// the entered traveler records intact.
func (w *Workflow) ConfirmBooking(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return NewBusyError("a search or booking is already in progress")
	}
	if w.stage != StageBooking {
		w.mu.Unlock()
		return NewValidationError("a booking can only be confirmed from the booking stage")
	}
	req, err := w.form.Assemble(w.selected.Offer)
	if err != nil {
		w.mu.Unlock()
		w.notifier.Notify(err.Error(), SeverityError)
		return err
	}
	w.busy = true
	w.mu.Unlock()

	code, err := w.inventory.Book(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false

	if err != nil {
		w.logger.Error("booking failed", logger.Field{Key: "err", Value: err.Error()})
		w.notifier.Notify(err.Error(), SeverityError)
		return NewProviderError(err.Error())
	}

	w.bookingCode = code
	w.stage = StageConfirmed
	w.offers = nil
	w.notifier.Notify("booking confirmed with code "+code, SeveritySuccess)
	return nil
}

// Back steps one stage backwards: booking returns to the preserved result
// list without a re-search, results returns to landing and clears the
// session.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return NewBusyError("a search or booking is already in progress")
	}
	switch w.stage {
	case StageBooking:
		w.form = nil
		w.selected = nil
		w.stage = StageResults
		return nil
	case StageResults:
		w.reset()
		return nil
	default:
		return NewValidationError("nothing to go back to from stage " + string(w.stage))
	}
}

// NewSearch resets the session to its initial values.
func (w *Workflow) NewSearch() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return NewBusyError("a search or booking is already in progress")
	}
	w.reset()
	return nil
}

func (w *Workflow) reset() {
	w.stage = StageLanding
	w.criteria = nil
	w.offers = nil
	w.selected = nil
	w.form = nil
	w.bookingCode = ""
}
