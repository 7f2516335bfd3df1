package flow

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/core/logger"
)

// startOver resets the identity's session and opens language selection.
// Used by /start, /reset, and as the recovery path for unknown identities.
func (e *Engine) startOver(ctx context.Context, identity, notice string) (Result, error) {
	sess, err := e.sessions.Create(ctx, identity)
	if err != nil {
		return Result{}, fmt.Errorf("flow: create session: %w", err)
	}
	if err := e.sessions.SetState(ctx, identity, session.StateSelectingLanguage); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	logger.Info(ctx, "flow", "session.reset",
		slog.String("lang", string(sess.Language)),
	)

	var replies []Reply
	if notice != "" {
		reply := textReply(notice)
		reply.RemoveKeyboard = true
		replies = append(replies, reply)
	}
	replies = append(replies,
		textReply(i18n.T(sess.Language, i18n.MsgWelcome)),
		sendReply(i18n.T(sess.Language, i18n.MsgSelectLanguage), languageRows()...),
	)
	return Result{Replies: replies}, nil
}

// askLanguage re-opens language selection without clearing session data.
func (e *Engine) askLanguage(ctx context.Context, identity string) (Result, error) {
	sess, err := e.ensureSession(ctx, identity)
	if err != nil {
		return Result{}, err
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateSelectingLanguage); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	return oneReply(sendReply(i18n.T(sess.Language, i18n.MsgSelectLanguage), languageRows()...)), nil
}

func languageRows() [][]Button {
	langs := i18n.All()
	rows := make([][]Button, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, []Button{{Text: i18n.Label(l), Key: BtnLang, Payload: string(l)}})
	}
	return rows
}

// setLanguage records the selection and lands the user on the main menu.
// Malformed payloads fall back to the default language rather than erroring.
func (e *Engine) setLanguage(ctx context.Context, sess *session.Session, payload string) (Result, error) {
	lang := i18n.Parse(payload)
	if err := e.sessions.SetLanguage(ctx, sess.Identity, lang); err != nil {
		return Result{}, fmt.Errorf("flow: set language: %w", err)
	}
	sess.Language = lang

	logger.Info(ctx, "flow", "language.set",
		slog.String("lang", string(lang)),
	)

	menu, err := e.showMainMenu(ctx, sess, false)
	if err != nil {
		return Result{}, err
	}
	replies := append([]Reply{editReply(i18n.T(lang, i18n.MsgLanguageSet))}, menu.Replies...)
	return Result{Replies: replies}, nil
}

// showMainMenu renders the six-entry main menu and records MAIN_MENU.
func (e *Engine) showMainMenu(ctx context.Context, sess *session.Session, edit bool) (Result, error) {
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateMainMenu); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	lang := sess.Language
	rows := [][]Button{
		{{Text: i18n.T(lang, i18n.BtnBuyTicket), Key: BtnMenu, Payload: MenuBuyTicket}},
		{{Text: i18n.T(lang, i18n.BtnBuyPass), Key: BtnMenu, Payload: MenuBuyPass}},
		{{Text: i18n.T(lang, i18n.BtnViewPasses), Key: BtnMenu, Payload: MenuMyPasses}},
		{{Text: i18n.T(lang, i18n.BtnTrackBus), Key: BtnMenu, Payload: MenuTrackBus}},
		{{Text: i18n.T(lang, i18n.BtnViewRoutes), Key: BtnMenu, Payload: MenuRoutes}},
		{{Text: i18n.T(lang, i18n.BtnSupport), Key: BtnMenu, Payload: MenuSupport}},
	}
	reply := sendReply(i18n.T(lang, i18n.MsgMainMenu), rows...)
	reply.Edit = edit
	return oneReply(reply), nil
}

func (e *Engine) handleMenuChoice(ctx context.Context, sess *session.Session, choice string) (Result, error) {
	switch choice {
	case MenuBuyTicket:
		return e.ticketSourceRegions(ctx, sess, true)
	case MenuBuyPass:
		return e.passBusTypes(ctx, sess, true)
	case MenuMyPasses:
		return e.passList(ctx, sess)
	case MenuTrackBus:
		return e.busTracking(ctx, sess)
	case MenuRoutes:
		return e.routeInfo(ctx, sess)
	case MenuSupport:
		return e.customerSupport(ctx, sess)
	default:
		menu, err := e.showMainMenu(ctx, sess, false)
		if err != nil {
			return Result{}, err
		}
		replies := append([]Reply{textReply(i18n.T(sess.Language, i18n.MsgInvalidSelection))}, menu.Replies...)
		return Result{Replies: replies}, nil
	}
}

// customerSupport shows the static contact card.
func (e *Engine) customerSupport(ctx context.Context, sess *session.Session) (Result, error) {
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateCustomerSupport); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgSupport),
		e.backToMenuRow(sess.Language))), nil
}
