package flow

import (
	"context"
	"fmt"

	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/bot/session"
)

// busTracking shows the placeholder screen for live tracking.
func (e *Engine) busTracking(ctx context.Context, sess *session.Session) (Result, error) {
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{BusTracking: &session.BusTracking{}}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateBusTrackingComingSoon); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}
	return oneReply(editReply(i18n.T(sess.Language, i18n.MsgTrackingSoon),
		e.backToMenuRow(sess.Language))), nil
}

// busNumberEntry answers text sent from the dormant bus-number state. The
// state has no live entry point, so the user is steered back to the menu.
func (e *Engine) busNumberEntry(ctx context.Context, sess *session.Session) (Result, error) {
	return e.busTracking(ctx, sess)
}

// routeInfo sends the routes document and a follow-up with the menu button.
func (e *Engine) routeInfo(ctx context.Context, sess *session.Session) (Result, error) {
	if _, err := e.sessions.MergeData(ctx, sess.Identity, session.Patch{RouteInfo: &session.RouteInfo{}}); err != nil {
		return Result{}, fmt.Errorf("flow: merge data: %w", err)
	}
	if err := e.sessions.SetState(ctx, sess.Identity, session.StateRouteInfoViewing); err != nil {
		return Result{}, fmt.Errorf("flow: set state: %w", err)
	}

	lang := sess.Language
	replies := []Reply{editReply(i18n.T(lang, i18n.MsgRouteInfo))}
	if e.cfg.RouteDocPath != "" {
		replies = append(replies, Reply{
			DocumentPath: e.cfg.RouteDocPath,
			DocumentName: "CTU_Bus_Routes.pdf",
		})
	}
	replies = append(replies, sendReply(i18n.T(lang, i18n.MsgRouteFollowUp),
		e.backToMenuRow(lang)))
	return Result{Replies: replies}, nil
}
