package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"log/slog"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/qr"
	"github.com/m3rciful/transitbot/core/logger"
)

const (
	paymentRefAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	paymentRefLength   = 9
	ticketIDAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	ticketIDLength     = 12

	// Tickets are valid for exactly one day from the issuance instant.
	validityWindow = 24 * time.Hour

	fallbackRouteNumber = "CTU-R1"
)

// Pacing holds the artificial delays of the simulated payment. Both are
// cosmetic; zero values skip the sleeps entirely.
type Pacing struct {
	Processing time.Duration
	Generation time.Duration
}

// Service books tickets: simulated payment, fare computation, QR rendering,
// persistence.
type Service struct {
	store  Store
	qr     qr.Generator
	pacing Pacing
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewService constructs a ticket Service.
func NewService(store Store, gen qr.Generator, pacing Pacing) *Service {
	return &Service{
		store:  store,
		qr:     gen,
		pacing: pacing,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// SetClock replaces the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// BookingRequest carries everything accumulated by the ticket flow.
type BookingRequest struct {
	Identity      string
	Source        string
	Destination   string
	Passengers    int
	Bus           catalog.Departure
	PaymentMethod string
	// PaymentID is optional; a reference is synthesized when empty.
	PaymentID string
}

// BookingResult is the persisted ticket plus its rendered QR image.
type BookingResult struct {
	Ticket *Ticket
	QR     qr.Reference
}

type qrPayload struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	BusNumber     string `json:"busNumber"`
	DepartureTime string `json:"departureTime"`
	Passengers    int    `json:"passengers"`
	IssuedAt      string `json:"issuedAt"`
	ValidUntil    string `json:"validUntil"`
}

// Book runs the simulated payment and creates the ticket. Fare is the
// per-seat fare times the passenger count; validity ends exactly 24 hours
// after issuance.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if req.Identity == "" {
		return nil, fmt.Errorf("tickets: empty identity")
	}
	if req.Passengers < 1 || req.Passengers > 6 {
		return nil, fmt.Errorf("tickets: passenger count %d out of range", req.Passengers)
	}

	start := s.now()
	s.sleep(s.pacing.Processing)

	paymentID := req.PaymentID
	if paymentID == "" {
		ref, err := gonanoid.Generate(paymentRefAlphabet, paymentRefLength)
		if err != nil {
			return nil, fmt.Errorf("tickets: payment reference failed: %w", err)
		}
		paymentID = "PAY" + ref
	}

	s.sleep(s.pacing.Generation)

	id, err := gonanoid.Generate(ticketIDAlphabet, ticketIDLength)
	if err != nil {
		return nil, fmt.Errorf("tickets: id generation failed: %w", err)
	}

	issuedAt := s.now()
	validUntil := issuedAt.Add(validityWindow)

	t := &Ticket{
		ID:            id,
		Identity:      req.Identity,
		Source:        req.Source,
		Destination:   req.Destination,
		BusNumber:     req.Bus.BusNumber,
		RouteNumber:   routeNumber(req.Source, req.Destination),
		Passengers:    req.Passengers,
		Fare:          req.Bus.Fare * req.Passengers,
		PaymentStatus: PaymentCompleted,
		PaymentID:     paymentID,
		IssuedAt:      issuedAt,
		ValidUntil:    validUntil,
		Status:        StatusActive,
	}

	payload, err := json.Marshal(qrPayload{
		ID:            t.ID,
		Source:        t.Source,
		Destination:   t.Destination,
		BusNumber:     t.BusNumber,
		DepartureTime: req.Bus.DepartureTime,
		Passengers:    t.Passengers,
		IssuedAt:      issuedAt.UTC().Format(time.RFC3339),
		ValidUntil:    validUntil.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("tickets: qr payload failed: %w", err)
	}
	ref, err := s.qr.Generate(string(payload))
	if err != nil {
		return nil, fmt.Errorf("tickets: qr generation failed: %w", err)
	}
	t.QRRef = ref.Name

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("tickets: insert failed: %w", err)
	}

	logger.Info(ctx, "service.tickets", "ticket.booked",
		slog.String("ticket_id", t.ID),
		slog.String("bus_number", t.BusNumber),
		slog.Int("passengers", t.Passengers),
		slog.Int("fare", t.Fare),
		slog.String("payment_method", req.PaymentMethod),
		slog.Duration("duration", logger.RoundMS(s.now().Sub(start))),
	)

	return &BookingResult{Ticket: t, QR: ref}, nil
}

// Find returns a single ticket by id.
func (s *Service) Find(ctx context.Context, id string) (*Ticket, error) {
	return s.store.Get(ctx, id)
}

// ListIssuedToday returns the identity's tickets issued in the current local
// day window [midnight, next midnight).
func (s *Service) ListIssuedToday(ctx context.Context, identity string) ([]Ticket, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tickets, err := s.store.ListIssuedBetween(ctx, identity, midnight, midnight.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("tickets: list failed: %w", err)
	}
	logger.Debug(ctx, "service.tickets", "ticket.list",
		slog.Int("tickets_shown", len(tickets)),
	)
	return tickets, nil
}

// Count reports the total number of issued tickets.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// routeNumber derives a route label from the digits of the two endpoints,
// e.g. "Sector 5" -> "PGI" becomes "R5". Endpoint pairs with no digits fall
// back to a fixed label.
func routeNumber(source, destination string) string {
	rn := "R" + digits(source) + digits(destination)
	if rn == "R" {
		return fallbackRouteNumber
	}
	return rn
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
