package pass

import (
	"context"
	"encoding/json"
	"fmt"
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
	passIDAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	passIDLength       = 12
)

// Pacing holds the artificial delays of the simulated payment.
type Pacing struct {
	Processing time.Duration
	Generation time.Duration
}

// Service issues travel passes after the flow has collected the category,
// any required documents, and a payment method.
type Service struct {
	store  Store
	qr     qr.Generator
	pacing Pacing
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewService constructs a pass Service.
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

// IssueRequest carries everything accumulated by the pass flow.
type IssueRequest struct {
	Identity      string
	Category      catalog.PassCategory
	BusType       catalog.BusType
	PaymentMethod string
	// PaymentID is optional; a reference is synthesized when empty.
	PaymentID string
	// Documents are the uploaded file references, in upload order.
	Documents []string
}

// IssueResult is the persisted pass plus its rendered QR image.
type IssueResult struct {
	Pass *Pass
	QR   qr.Reference
}

type qrPayload struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Name       string `json:"name"`
	ValidFrom  string `json:"validFrom"`
	ValidUntil string `json:"validUntil"`
}

// Issue runs the simulated payment and creates the pass. Categories that
// require documents are created pending approval; the rest are active
// immediately.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if req.Identity == "" {
		return nil, fmt.Errorf("passes: empty identity")
	}
	info, ok := catalog.PassInfo(req.Category)
	if !ok {
		return nil, fmt.Errorf("passes: unknown category %q", req.Category)
	}
	if len(req.Documents) < info.Documents {
		return nil, fmt.Errorf("passes: category %q requires %d documents, got %d",
			req.Category, info.Documents, len(req.Documents))
	}

	s.sleep(s.pacing.Processing)

	paymentID := req.PaymentID
	if paymentID == "" {
		ref, err := gonanoid.Generate(paymentRefAlphabet, paymentRefLength)
		if err != nil {
			return nil, fmt.Errorf("passes: payment reference failed: %w", err)
		}
		paymentID = "PAY" + ref
	}

	s.sleep(s.pacing.Generation)

	id, err := gonanoid.Generate(passIDAlphabet, passIDLength)
	if err != nil {
		return nil, fmt.Errorf("passes: id generation failed: %w", err)
	}

	now := s.now()
	validUntil := now.AddDate(0, 0, info.ValidityDays)

	status := StatusActive
	if info.Documents > 0 {
		status = StatusPending
	}

	p := &Pass{
		ID:            id,
		Identity:      req.Identity,
		Category:      req.Category,
		BusType:       req.BusType,
		Name:          info.Name,
		Fare:          info.Fare,
		ValidFrom:     now,
		ValidUntil:    validUntil,
		PaymentStatus: PaymentCompleted,
		PaymentID:     paymentID,
		Documents:     append([]string(nil), req.Documents...),
		Status:        status,
		CreatedAt:     now,
	}

	payload, err := json.Marshal(qrPayload{
		ID:         p.ID,
		Category:   string(p.Category),
		Name:       p.Name,
		ValidFrom:  now.UTC().Format(time.RFC3339),
		ValidUntil: validUntil.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("passes: qr payload failed: %w", err)
	}
	ref, err := s.qr.Generate(string(payload))
	if err != nil {
		return nil, fmt.Errorf("passes: qr generation failed: %w", err)
	}
	p.QRRef = ref.Name

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("passes: insert failed: %w", err)
	}

	logger.Info(ctx, "service.passes", "pass.issued",
		slog.String("pass_id", p.ID),
		slog.String("category", string(p.Category)),
		slog.Int("fare", p.Fare),
		slog.String("status", p.Status),
		slog.Int("documents", len(p.Documents)),
	)

	return &IssueResult{Pass: p, QR: ref}, nil
}

// List returns the identity's purchased passes, newest first.
func (s *Service) List(ctx context.Context, identity string) ([]Pass, error) {
	passes, err := s.store.ListByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("passes: list failed: %w", err)
	}
	return passes, nil
}

// Count reports the total number of issued passes.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
