// Package session persists per-identity conversation state and the
// accumulated working data for each flow.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/i18n"
)

// ErrNotFound is returned when an identity has no stored session.
var ErrNotFound = errors.New("session not found")

// State identifies a single step of a conversation flow.
type State string

const (
	StateStart             State = "START"
	StateSelectingLanguage State = "SELECTING_LANGUAGE"
	StateMainMenu          State = "MAIN_MENU"
	StateCustomerSupport   State = "CUSTOMER_SUPPORT"

	StateTicketSelectingOption      State = "TICKET_SELECTING_OPTION"
	StateTicketSelectingSrcRegion   State = "TICKET_SELECTING_SOURCE_REGION"
	StateTicketSelectingSource      State = "TICKET_SELECTING_SOURCE"
	StateTicketSelectingDestRegion  State = "TICKET_SELECTING_DESTINATION_REGION"
	StateTicketSelectingDestination State = "TICKET_SELECTING_DESTINATION"
	StateTicketEnteringPassengers   State = "TICKET_ENTERING_PASSENGERS"
	StateTicketSelectingBus         State = "TICKET_SELECTING_BUS"
	StateTicketConfirming           State = "TICKET_CONFIRMING"
	StateTicketSelectingPayment     State = "TICKET_SELECTING_PAYMENT"
	StateTicketBooked               State = "TICKET_BOOKED"
	StateTicketViewing              State = "TICKET_VIEWING"

	StatePassSelectingBusType   State = "PASS_SELECTING_BUS_TYPE"
	StatePassSelectingType      State = "PASS_SELECTING_TYPE"
	StatePassUploadingDocument  State = "PASS_UPLOADING_DOCUMENT"
	StatePassDocumentReceived   State = "PASS_DOCUMENT_RECEIVED"
	StatePassConfirming         State = "PASS_CONFIRMING"
	StatePassSelectingPayment   State = "PASS_SELECTING_PAYMENT"
	StatePassIssued             State = "PASS_ISSUED"
	StatePassViewing            State = "PASS_VIEWING"

	StateBusTrackingComingSoon State = "BUS_TRACKING_COMING_SOON"
	// StateBusEnteringNumber is dispatched-to by the text router but no flow
	// currently enters it; kept so stale sessions still resolve to a handler.
	StateBusEnteringNumber State = "BUS_ENTERING_NUMBER"

	StateRouteInfoViewing State = "ROUTE_INFO_VIEWING"
)

// TicketBooking accumulates the ticket purchase working set.
type TicketBooking struct {
	SourceRegion      catalog.Region      `json:"sourceRegion,omitempty"`
	Source            string              `json:"source,omitempty"`
	DestinationRegion catalog.Region      `json:"destinationRegion,omitempty"`
	Destination       string              `json:"destination,omitempty"`
	Passengers        int                 `json:"passengers,omitempty"`
	AvailableBuses    []catalog.Departure `json:"availableBuses,omitempty"`
	SelectedBus       *catalog.Departure  `json:"selectedBus,omitempty"`
	PaymentMethod     string              `json:"paymentMethod,omitempty"`
	PaymentID         string              `json:"paymentId,omitempty"`
}

// TicketRef is the short form of a purchased ticket kept while the user
// browses the same-day ticket list.
type TicketRef struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	BusNumber   string `json:"busNumber"`
}

// TicketViewing accumulates the ticket listing working set.
type TicketViewing struct {
	Tickets []TicketRef `json:"tickets,omitempty"`
}

// PassPurchase accumulates the pass purchase working set. Document file
// references are written once per role and never deleted within a purchase.
type PassPurchase struct {
	BusType       catalog.BusType      `json:"busType,omitempty"`
	Category      catalog.PassCategory `json:"passType,omitempty"`
	DocumentStep  int                  `json:"documentStep,omitempty"`
	IDCardFileID  string               `json:"idCardFileId,omitempty"`
	AadharFileID  string               `json:"aadharFileId,omitempty"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	PaymentID     string               `json:"paymentId,omitempty"`
}

// BusTracking accumulates the (placeholder) bus tracking working set.
type BusTracking struct {
	BusNumber string `json:"busNumber,omitempty"`
}

// RouteInfo accumulates the route information working set.
type RouteInfo struct{}

// Data maps each flow to its working set. Exactly one sub-object per flow;
// a flow restarting overwrites its own sub-object and leaves siblings alone.
type Data struct {
	Ticket      *TicketBooking `json:"ticketBooking,omitempty"`
	TicketView  *TicketViewing `json:"ticketViewing,omitempty"`
	Pass        *PassPurchase  `json:"passPurchase,omitempty"`
	BusTracking *BusTracking   `json:"busTracking,omitempty"`
	RouteInfo   *RouteInfo     `json:"routeInfo,omitempty"`
}

// Patch carries replacement sub-objects for MergeData. A non-nil field
// replaces the flow's entire prior sub-object; nil fields are left untouched.
// There is deliberately no deep merge: callers read-modify-write the full
// sub-object to carry earlier fields forward.
type Patch struct {
	Ticket      *TicketBooking
	TicketView  *TicketViewing
	Pass        *PassPurchase
	BusTracking *BusTracking
	RouteInfo   *RouteInfo
}

// Apply overwrites the data's flow sub-objects with the patch's non-nil fields.
func (p Patch) Apply(d *Data) {
	if d == nil {
		return
	}
	if p.Ticket != nil {
		d.Ticket = p.Ticket
	}
	if p.TicketView != nil {
		d.TicketView = p.TicketView
	}
	if p.Pass != nil {
		d.Pass = p.Pass
	}
	if p.BusTracking != nil {
		d.BusTracking = p.BusTracking
	}
	if p.RouteInfo != nil {
		d.RouteInfo = p.RouteInfo
	}
}

// Session is the persisted per-identity conversation record.
type Session struct {
	Identity  string    `db:"identity"`
	Language  i18n.Lang `db:"language"`
	State     State     `db:"state"`
	Data      Data      `db:"-"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store is the persistence contract for sessions.
type Store interface {
	// Get returns the session for an identity or ErrNotFound.
	Get(ctx context.Context, identity string) (*Session, error)
	// Create upserts the identity's session, forcing state START and empty
	// data while preserving a previously chosen language.
	Create(ctx context.Context, identity string) (*Session, error)
	// SetState replaces the current state.
	SetState(ctx context.Context, identity string, st State) error
	// SetLanguage replaces the interface language.
	SetLanguage(ctx context.Context, identity string, lang i18n.Lang) error
	// MergeData applies the patch to the stored data and returns the
	// resulting session.
	MergeData(ctx context.Context, identity string, patch Patch) (*Session, error)
	// Count reports the number of stored sessions.
	Count(ctx context.Context) (int, error)
}
