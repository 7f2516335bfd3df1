package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/pass"
	"github.com/m3rciful/transitbot/bot/qr"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/bot/ticket"
)

type fixture struct {
	engine   *Engine
	sessions session.Store
	tickets  *ticket.Service
	passes   *pass.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	sessions := session.NewMemoryStoreWithClock(clock)
	tickets := ticket.NewService(ticket.NewMemoryStore(), qr.NewGenerator(), ticket.Pacing{})
	tickets.SetClock(clock)
	passes := pass.NewService(pass.NewMemoryStore(), qr.NewGenerator(), pass.Pacing{})
	passes.SetClock(clock)

	engine := NewEngine(sessions, tickets, passes, Config{
		MenuReturnDelay: 3 * time.Second,
	})
	engine.SetClock(clock)

	return &fixture{engine: engine, sessions: sessions, tickets: tickets, passes: passes, now: now}
}

func (f *fixture) command(t *testing.T, identity, cmd string) Result {
	t.Helper()
	res, err := f.engine.Handle(context.Background(), identity, Event{Kind: KindCommand, Command: cmd})
	require.NoError(t, err)
	return res
}

func (f *fixture) press(t *testing.T, identity, key, payload string) Result {
	t.Helper()
	res, err := f.engine.Handle(context.Background(), identity, Event{Kind: KindButton, Button: key, Payload: payload})
	require.NoError(t, err)
	return res
}

func (f *fixture) upload(t *testing.T, identity, fileID, mime string) Result {
	t.Helper()
	res, err := f.engine.Handle(context.Background(), identity, Event{
		Kind:     KindDocument,
		Document: &Attachment{FileID: fileID, MIMEType: mime},
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) session(t *testing.T, identity string) *session.Session {
	t.Helper()
	sess, err := f.sessions.Get(context.Background(), identity)
	require.NoError(t, err)
	return sess
}

func TestStartThenLanguageSelection(t *testing.T) {
	f := newFixture(t)

	res := f.command(t, "100", "/start")
	require.NotEmpty(t, res.Replies)
	assert.Equal(t, session.StateSelectingLanguage, f.session(t, "100").State)

	f.press(t, "100", BtnLang, string(i18n.LangHindi))
	sess := f.session(t, "100")
	assert.Equal(t, session.StateMainMenu, sess.State)
	assert.Equal(t, i18n.LangHindi, sess.Language)
}

func TestLanguageFallbackOnGarbagePayload(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, "klingon")

	sess := f.session(t, "100")
	assert.Equal(t, i18n.LangEnglish, sess.Language)
	assert.Equal(t, session.StateMainMenu, sess.State)
}

func bookTicket(t *testing.T, f *fixture, identity string) Result {
	t.Helper()
	f.command(t, identity, "/start")
	f.press(t, identity, BtnLang, string(i18n.LangEnglish))

	f.press(t, identity, BtnMenu, MenuBuyTicket)
	assert.Equal(t, session.StateTicketSelectingSrcRegion, f.session(t, identity).State)

	f.press(t, identity, BtnTicketSrcRegion, "sectors1to20")
	assert.Equal(t, session.StateTicketSelectingSource, f.session(t, identity).State)

	f.press(t, identity, BtnTicketSource, "0") // Sector 1 (Capitol Complex)
	assert.Equal(t, session.StateTicketSelectingDestRegion, f.session(t, identity).State)

	f.press(t, identity, BtnTicketDstRegion, "landmarks")
	assert.Equal(t, session.StateTicketSelectingDestination, f.session(t, identity).State)

	f.press(t, identity, BtnTicketDest, "0") // PGI
	assert.Equal(t, session.StateTicketEnteringPassengers, f.session(t, identity).State)

	f.press(t, identity, BtnTicketPassengers, "3")
	assert.Equal(t, session.StateTicketSelectingBus, f.session(t, identity).State)

	f.press(t, identity, BtnTicketBus, "0")
	assert.Equal(t, session.StateTicketConfirming, f.session(t, identity).State)

	f.press(t, identity, BtnTicketConfirm, "")
	assert.Equal(t, session.StateTicketSelectingPayment, f.session(t, identity).State)

	return f.press(t, identity, BtnTicketPayment, "upi")
}

func TestTicketPurchaseEndToEnd(t *testing.T) {
	f := newFixture(t)
	res := bookTicket(t, f, "100")

	sess := f.session(t, "100")
	assert.Equal(t, session.StateTicketBooked, sess.State)
	require.NotNil(t, sess.Data.Ticket)
	assert.Equal(t, "upi", sess.Data.Ticket.PaymentMethod)
	assert.NotEmpty(t, sess.Data.Ticket.PaymentID)

	tickets, err := f.tickets.ListIssuedToday(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	tk := tickets[0]
	assert.Equal(t, "Sector 1 (Capitol Complex)", tk.Source)
	assert.Equal(t, "PGI", tk.Destination)
	assert.Equal(t, 3, tk.Passengers)
	assert.Equal(t, 90, tk.Fare)
	assert.Equal(t, f.now.Add(24*time.Hour), tk.ValidUntil)
	assert.Equal(t, ticket.PaymentCompleted, tk.PaymentStatus)
	assert.Equal(t, ticket.StatusActive, tk.Status)

	assert.Equal(t, 3*time.Second, res.MenuReturnIn)
	var photos int
	for _, r := range res.Replies {
		if r.Photo != nil {
			photos++
		}
	}
	assert.Equal(t, 1, photos)
}

func TestTicketViewAfterPurchase(t *testing.T) {
	f := newFixture(t)
	bookTicket(t, f, "100")

	f.press(t, "100", BtnTicketBack, "options")
	res := f.press(t, "100", BtnTicketView, "")
	assert.Equal(t, session.StateTicketViewing, f.session(t, "100").State)
	require.NotEmpty(t, res.Replies)
	assert.Contains(t, res.Replies[0].Text, "1 ticket")

	sess := f.session(t, "100")
	require.NotNil(t, sess.Data.TicketView)
	require.Len(t, sess.Data.TicketView.Tickets, 1)

	id := sess.Data.TicketView.Tickets[0].ID
	detail := f.press(t, "100", BtnTicketShow, id)
	assert.Contains(t, detail.Replies[0].Text, "PGI")
}

func TestTicketPaymentWithIncompleteWorkingSetRestarts(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))
	f.press(t, "100", BtnMenu, MenuBuyTicket)

	// Stale payment press without a selected bus.
	res := f.press(t, "100", BtnTicketPayment, "upi")
	assert.Equal(t, session.StateTicketSelectingSrcRegion, f.session(t, "100").State)
	assert.Contains(t, res.Replies[0].Text, "start again")

	n, err := f.tickets.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTicketInvalidSelectionsLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))
	f.press(t, "100", BtnMenu, MenuBuyTicket)

	f.press(t, "100", BtnTicketSrcRegion, "mars")
	assert.Equal(t, session.StateTicketSelectingSrcRegion, f.session(t, "100").State)

	f.press(t, "100", BtnTicketSrcRegion, "sectors1to20")
	f.press(t, "100", BtnTicketSource, "99")
	assert.Equal(t, session.StateTicketSelectingSource, f.session(t, "100").State)

	f.press(t, "100", BtnTicketSource, "not-a-number")
	assert.Equal(t, session.StateTicketSelectingSource, f.session(t, "100").State)
}

func TestTicketBackTransitions(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))
	f.press(t, "100", BtnMenu, MenuBuyTicket)
	f.press(t, "100", BtnTicketSrcRegion, "sectors1to20")

	f.press(t, "100", BtnTicketBack, "src_regions")
	sess := f.session(t, "100")
	assert.Equal(t, session.StateTicketSelectingSrcRegion, sess.State)
	// Back without reset keeps the chosen region.
	require.NotNil(t, sess.Data.Ticket)
	assert.Equal(t, "sectors1to20", string(sess.Data.Ticket.SourceRegion))
}

func TestTicketBackWithLostPredecessorRestarts(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	// Stale back press straight from the menu: the destination step needs a
	// source that was never chosen.
	res := f.press(t, "100", BtnTicketBack, "destination")
	assert.Equal(t, session.StateTicketSelectingSrcRegion, f.session(t, "100").State)
	assert.Contains(t, res.Replies[0].Text, "start again")
}

func TestPassPurchaseWithDocuments(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	f.press(t, "100", BtnMenu, MenuBuyPass)
	assert.Equal(t, session.StatePassSelectingBusType, f.session(t, "100").State)

	f.press(t, "100", BtnPassBus, "ac")
	assert.Equal(t, session.StatePassSelectingType, f.session(t, "100").State)

	f.press(t, "100", BtnPassType, "student")
	sess := f.session(t, "100")
	assert.Equal(t, session.StatePassUploadingDocument, sess.State)
	require.NotNil(t, sess.Data.Pass)
	assert.Equal(t, 1, sess.Data.Pass.DocumentStep)

	// Non-PDF upload is rejected without advancing.
	res := f.upload(t, "100", "file-selfie", "image/jpeg")
	sess = f.session(t, "100")
	assert.Equal(t, session.StatePassUploadingDocument, sess.State)
	assert.Equal(t, 1, sess.Data.Pass.DocumentStep)
	assert.Contains(t, res.Replies[0].Text, "PDF")

	f.upload(t, "100", "file-id-card", "application/pdf")
	sess = f.session(t, "100")
	assert.Equal(t, session.StatePassUploadingDocument, sess.State)
	assert.Equal(t, 2, sess.Data.Pass.DocumentStep)
	assert.Equal(t, "file-id-card", sess.Data.Pass.IDCardFileID)

	f.upload(t, "100", "file-aadhar", "application/pdf")
	sess = f.session(t, "100")
	assert.Equal(t, session.StatePassDocumentReceived, sess.State)
	assert.Equal(t, 3, sess.Data.Pass.DocumentStep)
	assert.Equal(t, "file-aadhar", sess.Data.Pass.AadharFileID)

	f.press(t, "100", BtnPassContinue, "")
	assert.Equal(t, session.StatePassConfirming, f.session(t, "100").State)

	f.press(t, "100", BtnPassConfirm, "")
	assert.Equal(t, session.StatePassSelectingPayment, f.session(t, "100").State)

	res = f.press(t, "100", BtnPassPayment, "card")
	assert.Equal(t, session.StatePassIssued, f.session(t, "100").State)
	assert.Equal(t, 3*time.Second, res.MenuReturnIn)

	passes, err := f.passes.List(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, pass.StatusPending, passes[0].Status)
	assert.Equal(t, []string{"file-id-card", "file-aadhar"}, []string(passes[0].Documents))
	assert.Equal(t, 300, passes[0].Fare)
}

func TestSeniorPassSkipsToFinalDocumentStep(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))
	f.press(t, "100", BtnMenu, MenuBuyPass)
	f.press(t, "100", BtnPassBus, "nonac")
	f.press(t, "100", BtnPassType, "senior")

	sess := f.session(t, "100")
	assert.Equal(t, session.StatePassUploadingDocument, sess.State)
	assert.Equal(t, 2, sess.Data.Pass.DocumentStep)

	f.upload(t, "100", "file-aadhar", "application/pdf")
	sess = f.session(t, "100")
	assert.Equal(t, session.StatePassDocumentReceived, sess.State)
	assert.Empty(t, sess.Data.Pass.IDCardFileID)
	assert.Equal(t, "file-aadhar", sess.Data.Pass.AadharFileID)
}

func TestDailyPassNeedsNoDocuments(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))
	f.press(t, "100", BtnMenu, MenuBuyPass)
	f.press(t, "100", BtnPassBus, "ac")
	f.press(t, "100", BtnPassType, "daily_ac")

	assert.Equal(t, session.StatePassConfirming, f.session(t, "100").State)

	f.press(t, "100", BtnPassConfirm, "")
	f.press(t, "100", BtnPassPayment, "cash")

	passes, err := f.passes.List(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, pass.StatusActive, passes[0].Status)
}

func TestResetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangPunjabi))
	f.press(t, "100", BtnMenu, MenuBuyTicket)
	f.press(t, "100", BtnTicketSrcRegion, "landmarks")

	f.command(t, "100", "/reset")
	first := f.session(t, "100")
	assert.Equal(t, session.StateSelectingLanguage, first.State)
	assert.Equal(t, i18n.LangPunjabi, first.Language)
	assert.Nil(t, first.Data.Ticket)

	f.command(t, "100", "/reset")
	second := f.session(t, "100")
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Language, second.Language)
	assert.Equal(t, first.Data, second.Data)
}

func TestMenuCommandFromAnyState(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	advance := []func(){
		func() { f.press(t, "100", BtnMenu, MenuBuyTicket) },
		func() { f.press(t, "100", BtnMenu, MenuBuyPass) },
		func() { f.press(t, "100", BtnMenu, MenuSupport) },
		func() { f.press(t, "100", BtnMenu, MenuTrackBus) },
	}
	for _, step := range advance {
		step()
		f.command(t, "100", "/menu")
		assert.Equal(t, session.StateMainMenu, f.session(t, "100").State)
	}
}

func TestMenuCommandForUnknownIdentityCreatesSession(t *testing.T) {
	f := newFixture(t)
	f.command(t, "999", "/menu")
	assert.Equal(t, session.StateMainMenu, f.session(t, "999").State)
}

func TestFlowsKeepSiblingWorkingSets(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	f.press(t, "100", BtnMenu, MenuBuyPass)
	f.press(t, "100", BtnPassBus, "ac")

	f.command(t, "100", "/menu")
	f.press(t, "100", BtnMenu, MenuBuyTicket)
	f.press(t, "100", BtnTicketSrcRegion, "landmarks")

	sess := f.session(t, "100")
	require.NotNil(t, sess.Data.Pass)
	assert.Equal(t, "ac", string(sess.Data.Pass.BusType))
	require.NotNil(t, sess.Data.Ticket)
	assert.Equal(t, "landmarks", string(sess.Data.Ticket.SourceRegion))
}

func TestButtonFromUnknownIdentityRestarts(t *testing.T) {
	f := newFixture(t)
	res, err := f.engine.Handle(context.Background(), "404", Event{
		Kind: KindButton, Button: BtnMenu, Payload: MenuBuyTicket,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Replies)
	assert.Equal(t, session.StateSelectingLanguage, f.session(t, "404").State)
}

func TestFreeTextGetsNudgedToButtons(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	res, err := f.engine.Handle(context.Background(), "100", Event{Kind: KindText, Text: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Replies)
	assert.True(t, res.Replies[0].RemoveKeyboard)
	assert.Equal(t, session.StateMainMenu, f.session(t, "100").State)
}

func TestTrackingAndRouteInfo(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	f.press(t, "100", BtnMenu, MenuTrackBus)
	assert.Equal(t, session.StateBusTrackingComingSoon, f.session(t, "100").State)

	f.command(t, "100", "/menu")
	res := f.press(t, "100", BtnMenu, MenuRoutes)
	assert.Equal(t, session.StateRouteInfoViewing, f.session(t, "100").State)
	// No document configured: info text plus follow-up only.
	assert.Len(t, res.Replies, 2)
}

func TestRouteInfoAttachesConfiguredDocument(t *testing.T) {
	f := newFixture(t)
	f.engine.cfg.RouteDocPath = "assets/routes.pdf"
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	res := f.press(t, "100", BtnMenu, MenuRoutes)
	require.Len(t, res.Replies, 3)
	assert.Equal(t, "assets/routes.pdf", res.Replies[1].DocumentPath)
	assert.Equal(t, "CTU_Bus_Routes.pdf", res.Replies[1].DocumentName)
}

func TestCustomerSupport(t *testing.T) {
	f := newFixture(t)
	f.command(t, "100", "/start")
	f.press(t, "100", BtnLang, string(i18n.LangEnglish))

	res := f.press(t, "100", BtnMenu, MenuSupport)
	assert.Equal(t, session.StateCustomerSupport, f.session(t, "100").State)
	assert.Contains(t, res.Replies[0].Text, "0172-2704124")
}

func TestReturnToMenu(t *testing.T) {
	f := newFixture(t)
	bookTicket(t, f, "100")

	res, err := f.engine.ReturnToMenu(context.Background(), "100")
	require.NoError(t, err)
	require.NotEmpty(t, res.Replies)
	assert.Equal(t, session.StateMainMenu, f.session(t, "100").State)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	bookTicket(t, f, "100")

	text, err := f.engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sessions: 1\nTickets: 1\nPasses: 0", text)
}

func TestHandleRejectsEmptyIdentity(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Handle(context.Background(), "", Event{Kind: KindCommand, Command: "/start"})
	assert.Error(t, err)
}
