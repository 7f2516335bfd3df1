package flow

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/bot/ticket"
	"github.com/m3rciful/transitbot/core/logger"
)

// Back targets for the BtnTicketBack key.
const (
	ticketBackOptions     = "options"
	ticketBackSrcRegions  = "src_regions"
	ticketBackSource      = "source"
	ticketBackDstRegions  = "dest_regions"
	ticketBackDestination = "destination"
	ticketBackPassengers  = "passengers"
)

var paymentMethods = map[string]string{
	"card":       "💳 Credit/Debit Card",
	"upi":        "📱 UPI",
	"netbanking": "🏦 Net Banking",
	"cash":       "💵 Cash on Bus",
}

// ticketOptions shows the buy/view choice screen.
func (e *Engine) ticketOptions(ctx context.Context, sess *session.Session) (Result, error) {
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: &session.TicketBooking{}}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingOption); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	lang := sess.Language
	rows := [][]Button{
		{{Text: i18n.T(lang, i18n.BtnBuyTicket), Key: BtnTicketBuy}},
		{{Text: i18n.T(lang, i18n.BtnViewTickets), Key: BtnTicketView}},
		{{Text: i18n.T(lang, i18n.BtnBackToMenu), Key: BtnBackToMenu}},
	}
	return oneReply(editReply(i18n.T(lang, i18n.MsgTicketOptions), rows...)), nil
}

// ticketSourceRegions opens region selection. reset discards any previous
// ticket working set, which happens when the flow is (re)entered from a menu.
func (e *Engine) ticketSourceRegions(ctx context.Context, sess *session.Session, reset bool) (Result, error) {
	if reset {
		if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: &session.TicketBooking{}}); err != nil {
			return Result{}, fmt.Errorf("flow: merge data: %w", err)
		}
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingSrcRegion); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	lang := sess.Language
	rows := regionRows(lang, BtnTicketSrcRegion)
	rows = append(rows, []Button{{Text: i18n.T(lang, i18n.BtnBackToTicketMenu), Key: BtnTicketBack, Payload: ticketBackOptions}})
	return oneReply(editReply(i18n.T(lang, i18n.MsgSelectSrcRegion), rows...)), nil
}

func regionRows(lang i18n.Lang, key string) [][]Button {
	regions := catalog.Regions()
	rows := make([][]Button, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []Button{{Text: catalog.RegionName(r, lang), Key: key, Payload: string(r)}})
	}
	return rows
}

// locationRows lays locations out two per row; the payload is the location's
// index within its region list.
func locationRows(locations []string, key string) [][]Button {
	var rows [][]Button
	for i := 0; i < len(locations); i += 2 {
		row := []Button{{Text: locations[i], Key: key, Payload: strconv.Itoa(i)}}
		if i+1 < len(locations) {
			row = append(row, Button{Text: locations[i+1], Key: key, Payload: strconv.Itoa(i + 1)})
		}
		rows = append(rows, row)
	}
	return rows
}

func (e *Engine) ticketBooking(sess *session.Session) *session.TicketBooking {
	if sess.Data.Ticket == nil {
		return &session.TicketBooking{}
	}
	cp := *sess.Data.Ticket
	return &cp
}

func (e *Engine) invalidSelection(sess *session.Session) Result {
	return oneReply(sendReply(i18n.T(sess.Language, i18n.MsgInvalidSelection)))
}

func (e *Engine) ticketSelectSourceRegion(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	region := catalog.Region(payload)
	if !catalog.ValidRegion(region) {
		return e.invalidSelection(sess), nil
	}
	booking := e.ticketBooking(sess)
	booking.SourceRegion = region
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketSourceLocations(ctx, updated)
}

func (e *Engine) ticketSourceLocations(ctx context.Context, sess *session.Session) (Result, error) {
	booking := sess.Data.Ticket
	if booking == nil || !catalog.ValidRegion(booking.SourceRegion) {
		return e.ticketRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingSource); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	rows := locationRows(catalog.Locations(booking.SourceRegion), BtnTicketSource)
	rows = append(rows, []Button{{Text: "⬅️ Back to Regions", Key: BtnTicketBack, Payload: ticketBackSrcRegions}})
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgSelectSrcLocation), rows...)), nil
}

func (e *Engine) ticketSelectSource(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	booking := e.ticketBooking(sess)
	if !catalog.ValidRegion(booking.SourceRegion) {
		return e.ticketRestart(ctx, sess)
	}
	locations := catalog.Locations(booking.SourceRegion)
	idx, err := strconv.Atoi(payload)
	if err != nil || idx < 0 || idx >= len(locations) {
		return e.invalidSelection(sess), nil
	}
	booking.Source = locations[idx]
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketDestRegions(ctx, updated)
}

func (e *Engine) ticketDestRegions(ctx context.Context, sess *session.Session) (Result, error) {
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingDestRegion); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	rows := regionRows(sess.Language, BtnTicketDstRegion)
	rows = append(rows, []Button{{Text: "⬅️ Back to Source Selection", Key: BtnTicketBack, Payload: ticketBackSource}})
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgSelectDstRegion), rows...)), nil
}

func (e *Engine) ticketSelectDestRegion(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	region := catalog.Region(payload)
	if !catalog.ValidRegion(region) {
		return e.invalidSelection(sess), nil
	}
	booking := e.ticketBooking(sess)
	if booking.Source == "" {
		return e.ticketRestart(ctx, sess)
	}
	booking.DestinationRegion = region
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketDestLocations(ctx, updated)
}

func (e *Engine) ticketDestLocations(ctx context.Context, sess *session.Session) (Result, error) {
	booking := sess.Data.Ticket
	if booking == nil || !catalog.ValidRegion(booking.DestinationRegion) || booking.Source == "" {
		return e.ticketRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingDestination); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	locations := catalog.DestinationLocations(booking.DestinationRegion, booking.Source)
	rows := locationRows(locations, BtnTicketDest)
	rows = append(rows, []Button{{Text: "⬅️ Back to Regions", Key: BtnTicketBack, Payload: ticketBackDstRegions}})
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgSelectDstLocation), rows...)), nil
}

func (e *Engine) ticketSelectDestination(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	booking := e.ticketBooking(sess)
	if !catalog.ValidRegion(booking.DestinationRegion) || booking.Source == "" {
		return e.ticketRestart(ctx, sess)
	}
	locations := catalog.DestinationLocations(booking.DestinationRegion, booking.Source)
	idx, err := strconv.Atoi(payload)
	if err != nil || idx < 0 || idx >= len(locations) {
		return e.invalidSelection(sess), nil
	}
	booking.Destination = locations[idx]
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketPassengers(ctx, updated)
}

func (e *Engine) ticketPassengers(ctx context.Context, sess *session.Session) (Result, error) {
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketEnteringPassengers); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	rows := [][]Button{
		{
			{Text: "1", Key: BtnTicketPassengers, Payload: "1"},
			{Text: "2", Key: BtnTicketPassengers, Payload: "2"},
			{Text: "3", Key: BtnTicketPassengers, Payload: "3"},
		},
		{
			{Text: "4", Key: BtnTicketPassengers, Payload: "4"},
			{Text: "5", Key: BtnTicketPassengers, Payload: "5"},
			{Text: "6", Key: BtnTicketPassengers, Payload: "6"},
		},
		{{Text: "⬅️ Back to Destination", Key: BtnTicketBack, Payload: ticketBackDestination}},
	}
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgPassengerCount), rows...)), nil
}

func (e *Engine) ticketSelectPassengers(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 || n > 6 {
		return e.invalidSelection(sess), nil
	}
	booking := e.ticketBooking(sess)
	if booking.Source == "" || booking.Destination == "" {
		return e.ticketRestart(ctx, sess)
	}
	booking.Passengers = n
	booking.AvailableBuses = catalog.DepartureBoard(booking.Source, booking.Destination)
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketBuses(ctx, updated)
}

func (e *Engine) ticketBuses(ctx context.Context, sess *session.Session) (Result, error) {
	booking := sess.Data.Ticket
	if booking == nil || booking.Passengers == 0 || len(booking.AvailableBuses) == 0 {
		return e.ticketRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingBus); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	rows := make([][]Button, 0, len(booking.AvailableBuses)+1)
	for i, bus := range booking.AvailableBuses {
		label := fmt.Sprintf("%s (%s - %s) ₹%d",
			bus.BusNumber, bus.DepartureTime, bus.ArrivalTime, bus.Fare*booking.Passengers)
		rows = append(rows, []Button{{Text: label, Key: BtnTicketBus, Payload: strconv.Itoa(i)}})
	}
	rows = append(rows, []Button{{Text: "⬅️ Back to Passenger Selection", Key: BtnTicketBack, Payload: ticketBackPassengers}})
	text := fmt.Sprintf("Available buses from %s to %s for %d passenger(s):",
		booking.Source, booking.Destination, booking.Passengers)
	return oneReply(editReply(text, rows...)), nil
}

func (e *Engine) ticketSelectBus(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	booking := e.ticketBooking(sess)
	idx, err := strconv.Atoi(payload)
	if err != nil || idx < 0 || idx >= len(booking.AvailableBuses) {
		return e.invalidSelection(sess), nil
	}
	selected := booking.AvailableBuses[idx]
	booking.SelectedBus = &selected
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.ticketConfirmation(ctx, updated)
}

func (e *Engine) ticketConfirmation(ctx context.Context, sess *session.Session) (Result, error) {
	booking := sess.Data.Ticket
	if booking == nil || booking.SelectedBus == nil {
		return e.ticketRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketConfirming); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	bus := booking.SelectedBus
	text := fmt.Sprintf("Please confirm your booking:\n\nFrom: %s\nTo: %s\nBus: %s\nDeparture: %s\nArrival: %s\nPassengers: %d\nTotal Fare: ₹%d",
		booking.Source, booking.Destination, bus.BusNumber, bus.DepartureTime,
		bus.ArrivalTime, booking.Passengers, bus.Fare*booking.Passengers)
	rows := [][]Button{{
		{Text: "✅ Confirm Booking", Key: BtnTicketConfirm},
		{Text: "❌ Cancel", Key: BtnTicketCancel},
	}}
	return oneReply(editReply(text, rows...)), nil
}

func (e *Engine) ticketPaymentOptions(ctx context.Context, sess *session.Session) (Result, error) {
	booking := sess.Data.Ticket
	if booking == nil || booking.SelectedBus == nil {
		return e.ticketRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketSelectingPayment); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	bus := booking.SelectedBus
	text := fmt.Sprintf("Please select a payment method:\n\nFrom: %s\nTo: %s\nBus: %s\nDeparture: %s\nArrival: %s\nPassengers: %d\nTotal Fare: ₹%d",
		booking.Source, booking.Destination, bus.BusNumber, bus.DepartureTime,
		bus.ArrivalTime, booking.Passengers, bus.Fare*booking.Passengers)
	rows := [][]Button{
		{
			{Text: paymentMethods["card"], Key: BtnTicketPayment, Payload: "card"},
			{Text: paymentMethods["upi"], Key: BtnTicketPayment, Payload: "upi"},
		},
		{
			{Text: paymentMethods["netbanking"], Key: BtnTicketPayment, Payload: "netbanking"},
			{Text: paymentMethods["cash"], Key: BtnTicketPayment, Payload: "cash"},
		},
		{{Text: "❌ Cancel", Key: BtnTicketCancel}},
	}
	return oneReply(editReply(text, rows...)), nil
}

func (e *Engine) ticketCancel(ctx context.Context, sess *session.Session) (Result, error) {
	_ = ctx
	rows := [][]Button{
		{{Text: "Try Again", Key: BtnTicketBuy}},
		{{Text: i18n.T(sess.Language, i18n.BtnBackToMenu), Key: BtnBackToMenu}},
	}
	return oneReply(editReply("Booking cancelled. Would you like to try again?", rows...)), nil
}

func (e *Engine) ticketProcessPayment(ctx context.Context, sess *session.Session, method string) (Result, error) {
	if _, ok := paymentMethods[method]; !ok {
		return e.invalidSelection(sess), nil
	}
	booking := e.ticketBooking(sess)
	if booking.Source == "" || booking.Destination == "" || booking.Passengers == 0 || booking.SelectedBus == nil {
		return e.ticketRestart(ctx, sess)
	}

	res, err := e.tickets.Book(ctx, ticket.BookingRequest{
		Identity:      sess.Identity,
		Source:        booking.Source,
		Destination:   booking.Destination,
		Passengers:    booking.Passengers,
		Bus:           *booking.SelectedBus,
		PaymentMethod: method,
	})
	if err != nil {
		return Result{}, err
	}
	t := res.Ticket

	booking.PaymentMethod = method
	booking.PaymentID = t.PaymentID
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Ticket: booking}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketBooked); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	logger.Info(ctx, "flow", "ticket.payment",
		slog.String("ticket_id", t.ID),
		slog.String("payment_method", method),
	)

	paid := editReply(fmt.Sprintf("Payment successful! Your payment of ₹%d has been processed via %s.", t.Fare, method))
	confirmation := textReply(fmt.Sprintf("🎫 Ticket Confirmed!\n\nFrom: %s\nTo: %s\nBus: %s\nRoute: %s\nDeparture: %s\nPassengers: %d\nTotal Fare: ₹%d\nPayment Method: %s\nTicket ID: %s\nValid Until: %s\n\nPlease show this ticket or QR code to the conductor.",
		t.Source, t.Destination, t.BusNumber, t.RouteNumber,
		booking.SelectedBus.DepartureTime, t.Passengers, t.Fare, method,
		shortID(t.ID), t.ValidUntil.Format("02 Jan 2006 15:04")))
	qrReply := Reply{Text: "Here is your ticket QR code:", Photo: &res.QR}
	followUp := sendReply("Thank you for booking with CTU Transport!",
		[]Button{{Text: "🎫 Book Another Ticket", Key: BtnTicketBuy}},
		e.backToMenuRow(sess.Language),
	)

	return Result{
		Replies:      []Reply{paid, confirmation, qrReply, followUp},
		MenuReturnIn: e.cfg.MenuReturnDelay,
	}, nil
}

func (e *Engine) ticketList(ctx context.Context, sess *session.Session) (Result, error) {
	tickets, err := e.tickets.ListIssuedToday(ctx, sess.Identity)
	if err != nil {
		return Result{}, err
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateTicketViewing); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	lang := sess.Language
	backRow := []Button{{Text: i18n.T(lang, i18n.BtnBackToTicketMenu), Key: BtnTicketBack, Payload: ticketBackOptions}}
	if len(tickets) == 0 {
		return oneReply(editReply(i18n.T(lang, i18n.MsgNoTickets), backRow)), nil
	}

	refs := make([]session.TicketRef, 0, len(tickets))
	rows := make([][]Button, 0, len(tickets)+1)
	for _, t := range tickets {
		refs = append(refs, session.TicketRef{ID: t.ID, Source: t.Source, Destination: t.Destination, BusNumber: t.BusNumber})
		label := fmt.Sprintf("%s → %s (%s)", t.Source, t.Destination, t.BusNumber)
		rows = append(rows, []Button{{Text: label, Key: BtnTicketShow, Payload: t.ID}})
	}
	rows = append(rows, backRow)
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{TicketView: &session.TicketViewing{Tickets: refs}}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	text := fmt.Sprintf("You have %d ticket(s) purchased today:", len(tickets))
	return oneReply(editReply(text, rows...)), nil
}

func (e *Engine) ticketShow(ctx context.Context, sess *session.Session, id string) (Result, error) {
	t, err := e.tickets.Find(ctx, id)
	if err != nil {
		return e.invalidSelection(sess), nil
	}
	if t.Identity != sess.Identity {
		return e.invalidSelection(sess), nil
	}
	text := fmt.Sprintf("🎫 Ticket %s\n\nFrom: %s\nTo: %s\nBus: %s\nRoute: %s\nPassengers: %d\nFare: ₹%d\nStatus: %s\nValid Until: %s",
		shortID(t.ID), t.Source, t.Destination, t.BusNumber, t.RouteNumber,
		t.Passengers, t.Fare, t.Status, t.ValidUntil.Format("02 Jan 2006 15:04"))
	rows := [][]Button{
		{{Text: i18n.T(sess.Language, i18n.BtnBackToTicketMenu), Key: BtnTicketBack, Payload: ticketBackOptions}},
	}
	return oneReply(editReply(text, rows...)), nil
}

// ticketBack routes the flow's back buttons. Each target requires its
// predecessor's selection to still be present; when it is gone the flow
// restarts from region selection instead of rendering a broken prompt.
func (e *Engine) ticketBack(ctx context.Context, sess *session.Session, target string) (Result, error) {
	switch target {
	case ticketBackOptions:
		return e.ticketOptions(ctx, sess)
	case ticketBackSrcRegions:
		return e.ticketSourceRegions(ctx, sess, false)
	case ticketBackSource:
		return e.ticketSourceLocations(ctx, sess)
	case ticketBackDstRegions:
		return e.ticketDestRegions(ctx, sess)
	case ticketBackDestination:
		return e.ticketDestLocations(ctx, sess)
	case ticketBackPassengers:
		return e.ticketPassengers(ctx, sess)
	default:
		return e.invalidSelection(sess), nil
	}
}

// ticketRestart is the recovery path for a missing working set: notify and
// reopen region selection with fresh data.
func (e *Engine) ticketRestart(ctx context.Context, sess *session.Session) (Result, error) {
	regions, err := e.ticketSourceRegions(ctx, sess, true)
	if err != nil {
		return Result{}, err
	}
	replies := append([]Reply{textReply("Your booking details expired. Let's start again.")}, regions.Replies...)
	return Result{Replies: replies}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
