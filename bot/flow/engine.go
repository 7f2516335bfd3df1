package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/pass"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/bot/ticket"
	"github.com/m3rciful/transitbot/core/logger"
)

// Button unique keys. The transport encodes them into callback data and maps
// presses back through Event.Button.
const (
	BtnLang             = "lang"
	BtnMenu             = "menu"
	BtnBackToMenu       = "back_to_menu"
	BtnTicketBuy        = "ticket_buy"
	BtnTicketView       = "ticket_view"
	BtnTicketBack       = "ticket_back"
	BtnTicketSrcRegion  = "ticket_source_region"
	BtnTicketSource     = "ticket_source"
	BtnTicketDstRegion  = "ticket_dest_region"
	BtnTicketDest       = "ticket_dest"
	BtnTicketPassengers = "ticket_passengers"
	BtnTicketBus        = "ticket_bus"
	BtnTicketConfirm    = "ticket_confirm"
	BtnTicketCancel     = "ticket_cancel"
	BtnTicketPayment    = "ticket_payment"
	BtnTicketShow       = "ticket_show"
	BtnPassBus          = "pass_bus"
	BtnPassType         = "pass_type"
	BtnPassBack         = "pass_back"
	BtnPassContinue     = "pass_continue"
	BtnPassConfirm      = "pass_confirm"
	BtnPassCancel       = "pass_cancel"
	BtnPassPayment      = "pass_payment"
)

// Main menu payloads for the BtnMenu key.
const (
	MenuBuyTicket = "buy_ticket"
	MenuBuyPass   = "buy_pass"
	MenuMyPasses  = "view_passes"
	MenuTrackBus  = "track_bus"
	MenuRoutes    = "view_routes"
	MenuSupport   = "customer_support"
)

// Config carries engine tunables.
type Config struct {
	// RouteDocPath is the PDF served by the route info flow.
	RouteDocPath string
	// MenuReturnDelay schedules the automatic return to the main menu after
	// a completed purchase; zero disables it.
	MenuReturnDelay time.Duration
}

// Engine dispatches inbound events against the session state machine. All
// collaborators are injected at construction.
type Engine struct {
	sessions session.Store
	locks    *session.KeyedMutex
	tickets  *ticket.Service
	passes   *pass.Service
	cfg      Config
	now      func() time.Time
}

// NewEngine constructs an Engine.
func NewEngine(sessions session.Store, tickets *ticket.Service, passes *pass.Service, cfg Config) *Engine {
	return &Engine{
		sessions: sessions,
		locks:    session.NewKeyedMutex(),
		tickets:  tickets,
		passes:   passes,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock replaces the engine clock. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Handle processes one inbound event for an identity. Event processing is
// serialized per identity so concurrent deliveries cannot interleave the
// read-decide-write sequence.
func (e *Engine) Handle(ctx context.Context, identity string, ev Event) (Result, error) {
	if identity == "" {
		return Result{}, fmt.Errorf("flow: empty identity")
	}
	unlock := e.locks.Lock(identity)
	defer unlock()

	if ev.Kind == KindCommand {
		return e.handleCommand(ctx, identity, ev.Command)
	}

	sess, err := e.sessions.Get(ctx, identity)
	if errors.Is(err, session.ErrNotFound) {
		// Unknown identity mid-conversation: restart from the top.
		return e.startOver(ctx, identity, "")
	}
	if err != nil {
		return Result{}, fmt.Errorf("flow: load session: %w", err)
	}

	switch ev.Kind {
	case KindButton:
		return e.handleButton(ctx, sess, ev)
	case KindDocument:
		return e.handleDocument(ctx, sess, ev)
	case KindText:
		return e.handleText(ctx, sess, ev)
	default:
		return Result{}, fmt.Errorf("flow: unsupported event kind %d", ev.Kind)
	}
}

// ReturnToMenu forces the identity back to the main menu. The transport
// adapter calls it after Result.MenuReturnIn elapses.
func (e *Engine) ReturnToMenu(ctx context.Context, identity string) (Result, error) {
	unlock := e.locks.Lock(identity)
	defer unlock()

	sess, err := e.sessions.Get(ctx, identity)
	if err != nil {
		return Result{}, fmt.Errorf("flow: load session: %w", err)
	}
	return e.showMainMenu(ctx, sess, false)
}

func (e *Engine) handleCommand(ctx context.Context, identity, command string) (Result, error) {
	cmd := strings.TrimPrefix(strings.TrimSpace(command), "/")
	logger.Debug(ctx, "flow", "command",
		slog.String("op", cmd),
	)

	switch cmd {
	case "start":
		return e.startOver(ctx, identity, "")
	case "reset":
		return e.startOver(ctx, identity, i18n.T(i18n.Default(), i18n.MsgResetDone))
	case "language":
		return e.askLanguage(ctx, identity)
	case "menu":
		sess, err := e.ensureSession(ctx, identity)
		if err != nil {
			return Result{}, err
		}
		return e.showMainMenu(ctx, sess, false)
	case "help":
		sess, err := e.ensureSession(ctx, identity)
		if err != nil {
			return Result{}, err
		}
		reply := sendReply(i18n.T(sess.Language, i18n.MsgHelp),
			[]Button{{Text: i18n.T(sess.Language, i18n.BtnBackToMenu), Key: BtnBackToMenu}},
		)
		return oneReply(reply), nil
	default:
		return Result{}, fmt.Errorf("flow: unknown command %q", command)
	}
}

func (e *Engine) handleButton(ctx context.Context, sess *session.Session, ev Event) (Result, error) {
	switch ev.Button {
	case BtnLang:
		return e.setLanguage(ctx, sess, ev.Payload)
	case BtnMenu:
		return e.handleMenuChoice(ctx, sess, ev.Payload)
	case BtnBackToMenu:
		return e.showMainMenu(ctx, sess, true)

	case BtnTicketBuy:
		return e.ticketSourceRegions(ctx, sess, true)
	case BtnTicketView:
		return e.ticketList(ctx, sess)
	case BtnTicketBack:
		return e.ticketBack(ctx, sess, ev.Payload)
	case BtnTicketSrcRegion:
		return e.ticketSelectSourceRegion(ctx, sess, ev.Payload)
	case BtnTicketSource:
		return e.ticketSelectSource(ctx, sess, ev.Payload)
	case BtnTicketDstRegion:
		return e.ticketSelectDestRegion(ctx, sess, ev.Payload)
	case BtnTicketDest:
		return e.ticketSelectDestination(ctx, sess, ev.Payload)
	case BtnTicketPassengers:
		return e.ticketSelectPassengers(ctx, sess, ev.Payload)
	case BtnTicketBus:
		return e.ticketSelectBus(ctx, sess, ev.Payload)
	case BtnTicketConfirm:
		return e.ticketPaymentOptions(ctx, sess)
	case BtnTicketCancel:
		return e.ticketCancel(ctx, sess)
	case BtnTicketPayment:
		return e.ticketProcessPayment(ctx, sess, ev.Payload)
	case BtnTicketShow:
		return e.ticketShow(ctx, sess, ev.Payload)

	case BtnPassBus:
		return e.passSelectBusType(ctx, sess, ev.Payload)
	case BtnPassType:
		return e.passSelectType(ctx, sess, ev.Payload)
	case BtnPassBack:
		return e.passBack(ctx, sess, ev.Payload)
	case BtnPassContinue:
		return e.passSummary(ctx, sess)
	case BtnPassConfirm:
		return e.passPaymentOptions(ctx, sess)
	case BtnPassCancel:
		return e.passCancel(ctx, sess)
	case BtnPassPayment:
		return e.passProcessPayment(ctx, sess, ev.Payload)

	default:
		logger.Warn(ctx, "flow", "button.unknown",
			slog.String("cb_key", ev.Button),
		)
		return oneReply(editReply(i18n.T(sess.Language, i18n.MsgInvalidSelection),
			e.backToMenuRow(sess.Language))), nil
	}
}

func (e *Engine) handleDocument(ctx context.Context, sess *session.Session, ev Event) (Result, error) {
	if sess.State == session.StatePassUploadingDocument {
		return e.passReceiveDocument(ctx, sess, ev.Document)
	}
	return e.nudgeButtons(sess), nil
}

func (e *Engine) handleText(ctx context.Context, sess *session.Session, _ Event) (Result, error) {
	if sess.State == session.StateBusEnteringNumber {
		// Dead dispatch entry: no flow transitions here anymore, but stale
		// sessions may still carry the state.
		return e.busNumberEntry(ctx, sess)
	}
	return e.nudgeButtons(sess), nil
}

func (e *Engine) nudgeButtons(sess *session.Session) Result {
	reply := sendReply(i18n.T(sess.Language, i18n.MsgUseButtons))
	reply.RemoveKeyboard = true
	return oneReply(reply)
}

func (e *Engine) ensureSession(ctx context.Context, identity string) (*session.Session, error) {
	sess, err := e.sessions.Get(ctx, identity)
	if errors.Is(err, session.ErrNotFound) {
		sess, err = e.sessions.Create(ctx, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("flow: load session: %w", err)
	}
	return sess, nil
}

func (e *Engine) backToMenuRow(lang i18n.Lang) []Button {
	return []Button{{Text: i18n.T(lang, i18n.BtnBackToMenu), Key: BtnBackToMenu}}
}

// Stats summarizes store contents for the operator command.
func (e *Engine) Stats(ctx context.Context) (string, error) {
	sessions, err := e.sessions.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("flow: session count: %w", err)
	}
	tickets, err := e.tickets.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("flow: ticket count: %w", err)
	}
	passes, err := e.passes.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("flow: pass count: %w", err)
	}
	return fmt.Sprintf("Sessions: %d\nTickets: %d\nPasses: %d", sessions, tickets, passes), nil
}
