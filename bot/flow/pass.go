package flow

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/pass"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/core/logger"
)

// Back targets for the BtnPassBack key.
const (
	passBackBusType = "bus_type"
	passBackTypes   = "types"
)

// passBusTypes opens the pass flow at bus type selection. reset discards any
// previous pass working set.
func (e *Engine) passBusTypes(ctx context.Context, sess *session.Session, reset bool) (Result, error) {
	if reset {
		if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: &session.PassPurchase{}}); err != nil {
			return Result{}, fmt.Errorf("flow: merge data: %w", err)
		}
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassSelectingBusType); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	lang := sess.Language
	rows := [][]Button{
		{{Text: i18n.T(lang, i18n.BtnBusAC), Key: BtnPassBus, Payload: string(catalog.BusAC)}},
		{{Text: i18n.T(lang, i18n.BtnBusNonAC), Key: BtnPassBus, Payload: string(catalog.BusNonAC)}},
		e.backToMenuRow(lang),
	}
	return oneReply(editReply(i18n.T(lang, i18n.MsgPassBusType), rows...)), nil
}

func (e *Engine) passPurchase(sess *session.Session) *session.PassPurchase {
	if sess.Data.Pass == nil {
		return &session.PassPurchase{}
	}
	cp := *sess.Data.Pass
	return &cp
}

func (e *Engine) passSelectBusType(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	busType := catalog.BusType(payload)
	if !catalog.ValidBusType(busType) {
		return e.invalidSelection(sess), nil
	}
	purchase := e.passPurchase(sess)
	purchase.BusType = busType
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	return e.passTypes(ctx, updated)
}

func (e *Engine) passTypes(ctx context.Context, sess *session.Session) (Result, error) {
	purchase := sess.Data.Pass
	if purchase == nil || !catalog.ValidBusType(purchase.BusType) {
		return e.passRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassSelectingType); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	categories := []catalog.PassCategory{
		catalog.DailyPass(purchase.BusType),
		catalog.MonthlyPass(purchase.BusType),
		catalog.PassStudent,
		catalog.PassSenior,
	}
	rows := make([][]Button, 0, len(categories)+1)
	for _, cat := range categories {
		info, ok := catalog.PassInfo(cat)
		if !ok {
			continue
		}
		label := fmt.Sprintf("%s - ₹%d", info.Name, info.Fare)
		rows = append(rows, []Button{{Text: label, Key: BtnPassType, Payload: string(cat)}})
	}
	rows = append(rows, []Button{{Text: i18n.T(sess.Language, i18n.BtnBack), Key: BtnPassBack, Payload: passBackBusType}})
	return oneReply(editReply("Please select a pass type:", rows...)), nil
}

func (e *Engine) passSelectType(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	category := catalog.PassCategory(payload)
	info, ok := catalog.PassInfo(category)
	if !ok {
		return e.invalidSelection(sess), nil
	}
	purchase := e.passPurchase(sess)
	if !catalog.ValidBusType(purchase.BusType) {
		return e.passRestart(ctx, sess)
	}
	purchase.Category = category

	if info.Documents == 0 {
		updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase})
		if err != nil {
			return Result{}, fmt.Errorf("flow: merge data: %w", err)
		}
		return e.passSummary(ctx, updated)
	}

	// Categories with a single required document skip straight to the final
	// upload step; the first step is the student ID card.
	purchase.DocumentStep = 1
	prompt := "Step 1/2: Please upload your Student ID Card (PDF only)"
	if info.Documents == 1 {
		purchase.DocumentStep = 2
		prompt = "Please upload your Aadhar Card (PDF only)"
	}
	updated, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase})
	if err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, updated.Identity, session.StatePassUploadingDocument); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	reply := editReply(fmt.Sprintf("%s selected (₹%d, valid %d day(s)).\n\n%s",
		info.Name, info.Fare, info.ValidityDays, prompt))
	return oneReply(reply), nil
}

// passReceiveDocument handles an upload while the flow waits for documents.
// Anything that is not a PDF is rejected without advancing the step.
func (e *Engine) passReceiveDocument(ctx context.Context, sess *session.Session, doc *Attachment) (Result, error) {
	lang := sess.Language
	if doc == nil || !isPDF(doc) {
		return oneReply(sendReply(i18n.T(lang, i18n.MsgUploadPDFOnly))), nil
	}

	purchase := e.passPurchase(sess)
	if purchase.Category == "" {
		return e.passRestart(ctx, sess)
	}

	switch purchase.DocumentStep {
	case 1:
		purchase.IDCardFileID = doc.FileID
		purchase.DocumentStep = 2
		if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase}); err != nil {
			return Result{}, fmt.Errorf("flow: merge data: %w", err)
		}
		return Result{Replies: []Reply{
			textReply(i18n.T(lang, i18n.MsgDocReceivedOne)),
			textReply(i18n.T(lang, i18n.MsgDocStepTwo)),
		}}, nil
	case 2:
		purchase.AadharFileID = doc.FileID
		purchase.DocumentStep = 3
		if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase}); err != nil {
			return Result{}, fmt.Errorf("flow: merge data: %w", err)
		}
		if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassDocumentReceived); err != nil {
			return Result{}, fmt.Errorf("flow: set state: %w", err)
		}

		logger.Info(ctx, "flow", "pass.documents_complete",
			slog.String("category", string(purchase.Category)),
		)

		received := i18n.MsgDocReceivedBoth
		if purchase.IDCardFileID == "" {
			received = i18n.MsgDocReceivedOne
		}
		reply := sendReply(i18n.T(lang, received),
			[]Button{{Text: i18n.T(lang, i18n.BtnContinue), Key: BtnPassContinue}},
		)
		return oneReply(reply), nil
	default:
		return oneReply(sendReply(i18n.T(lang, i18n.MsgUseButtons))), nil
	}
}

func isPDF(doc *Attachment) bool {
	if strings.Contains(strings.ToLower(doc.MIMEType), "pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf")
}

// passSummary shows the purchase summary and asks for confirmation.
func (e *Engine) passSummary(ctx context.Context, sess *session.Session) (Result, error) {
	purchase := sess.Data.Pass
	if purchase == nil || purchase.Category == "" {
		return e.passRestart(ctx, sess)
	}
	info, ok := catalog.PassInfo(purchase.Category)
	if !ok {
		return e.passRestart(ctx, sess)
	}
	if len(e.passDocuments(purchase)) < info.Documents {
		return e.passRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassConfirming); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	text := fmt.Sprintf("Please confirm your pass purchase:\n\nPass: %s\nBus Type: %s\nValidity: %d day(s)\nFare: ₹%d",
		info.Name, busTypeLabel(purchase.BusType), info.ValidityDays, info.Fare)
	rows := [][]Button{{
		{Text: "✅ Confirm Purchase", Key: BtnPassConfirm},
		{Text: "❌ Cancel", Key: BtnPassCancel},
	}}
	reply := sendReply(text, rows...)
	return oneReply(reply), nil
}

func busTypeLabel(t catalog.BusType) string {
	if t == catalog.BusAC {
		return "AC"
	}
	return "Non-AC"
}

func (e *Engine) passPaymentOptions(ctx context.Context, sess *session.Session) (Result, error) {
	purchase := sess.Data.Pass
	if purchase == nil || purchase.Category == "" {
		return e.passRestart(ctx, sess)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassSelectingPayment); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	rows := [][]Button{
		{
			{Text: paymentMethods["card"], Key: BtnPassPayment, Payload: "card"},
			{Text: paymentMethods["upi"], Key: BtnPassPayment, Payload: "upi"},
		},
		{
			{Text: paymentMethods["netbanking"], Key: BtnPassPayment, Payload: "netbanking"},
			{Text: paymentMethods["cash"], Key: BtnPassPayment, Payload: "cash"},
		},
		{{Text: "❌ Cancel", Key: BtnPassCancel}},
	}
	return oneReply(editReply("Please select a payment method:", rows...)), nil
}

func (e *Engine) passCancel(ctx context.Context, sess *session.Session) (Result, error) {
	_ = ctx
	rows := [][]Button{
		{{Text: "Try Again", Key: BtnMenu, Payload: MenuBuyPass}},
		e.backToMenuRow(sess.Language),
	}
	return oneReply(editReply("Pass purchase cancelled. Would you like to try again?", rows...)), nil
}

func (e *Engine) passProcessPayment(ctx context.Context, sess *session.Session, method string) (Result, error) {
	if _, ok := paymentMethods[method]; !ok {
		return e.invalidSelection(sess), nil
	}
	purchase := e.passPurchase(sess)
	if purchase.Category == "" {
		return e.passRestart(ctx, sess)
	}

	res, err := e.passes.Issue(ctx, pass.IssueRequest{
		Identity:      sess.Identity,
		Category:      purchase.Category,
		BusType:       purchase.BusType,
		PaymentMethod: method,
		Documents:     e.passDocuments(purchase),
	})
	if err != nil {
		return Result{}, err
	}
	p := res.Pass

	purchase.PaymentMethod = method
	purchase.PaymentID = p.PaymentID
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{Pass: purchase}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassIssued); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	logger.Info(ctx, "flow", "pass.payment",
		slog.String("pass_id", p.ID),
		slog.String("payment_method", method),
	)

	statusLine := "Your pass is active."
	if p.Status == pass.StatusPending {
		statusLine = "Your documents are under review; the pass activates once they are approved."
	}
	paid := editReply(fmt.Sprintf("Payment successful! Your payment of ₹%d has been processed via %s.", p.Fare, method))
	confirmation := textReply(fmt.Sprintf("📝 Pass Purchased!\n\nPass: %s\nBus Type: %s\nValid From: %s\nValid Until: %s\nFare: ₹%d\nPayment Method: %s\nPass ID: %s\n\n%s",
		p.Name, busTypeLabel(p.BusType),
		p.ValidFrom.Format("02 Jan 2006"), p.ValidUntil.Format("02 Jan 2006"),
		p.Fare, method, shortID(p.ID), statusLine))
	qrReply := Reply{Text: "Here is your pass QR code:", Photo: &res.QR}
	followUp := sendReply("Thank you for choosing CTU Transport!", e.backToMenuRow(sess.Language))

	return Result{
		Replies:      []Reply{paid, confirmation, qrReply, followUp},
		MenuReturnIn: e.cfg.MenuReturnDelay,
	}, nil
}

// passDocuments lists the collected document references in upload order.
func (e *Engine) passDocuments(p *session.PassPurchase) []string {
	var docs []string
	if p.IDCardFileID != "" {
		docs = append(docs, p.IDCardFileID)
	}
	if p.AadharFileID != "" {
		docs = append(docs, p.AadharFileID)
	}
	return docs
}

func (e *Engine) passList(ctx context.Context, sess *session.Session) (Result, error) {
	passes, err := e.passes.List(ctx, sess.Identity)
	if err != nil {
		return Result{}, err
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StatePassViewing); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	lang := sess.Language
	if len(passes) == 0 {
		return oneReply(editReply(i18n.T(lang, i18n.MsgNoPasses), e.backToMenuRow(lang))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your passes (%d):\n", len(passes))
	for _, p := range passes {
		fmt.Fprintf(&b, "\n%s (%s)\nStatus: %s\nValid Until: %s\nPass ID: %s\n",
			p.Name, busTypeLabel(p.BusType), p.Status,
			p.ValidUntil.Format("02 Jan 2006"), shortID(p.ID))
	}
	return oneReply(editReply(b.String(), e.backToMenuRow(lang))), nil
}

// passBack routes the pass flow's back buttons.
func (e *Engine) passBack(ctx context.Context, sess *session.Session, target string) (Result, error) {
	switch target {
	case passBackBusType:
		return e.passBusTypes(ctx, sess, false)
	case passBackTypes:
		return e.passTypes(ctx, sess)
	default:
		return e.invalidSelection(sess), nil
	}
}

// passRestart recovers from a missing working set by reopening the flow.
func (e *Engine) passRestart(ctx context.Context, sess *session.Session) (Result, error) {
	busTypes, err := e.passBusTypes(ctx, sess, true)
	if err != nil {
		return Result{}, err
	}
	replies := append([]Reply{textReply("Your pass details expired. Let's start again.")}, busTypes.Replies...)
	return Result{Replies: replies}, nil
}
