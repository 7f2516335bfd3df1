package bot

import (
	"bytes"
	"context"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/m3rciful/transitbot/bot/flow"
	"github.com/m3rciful/transitbot/bot/i18n"
	"github.com/m3rciful/transitbot/core/logger"
	coretelegram "github.com/m3rciful/transitbot/core/telegram"
	"github.com/m3rciful/transitbot/core/telegram/callbacks"
	"github.com/m3rciful/transitbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/transitbot/core/telegram/helpers"
	"github.com/m3rciful/transitbot/core/telegram/keyboard"
)

// callbackKeys lists every inline button key the engine emits. Each key gets
// one registry entry that decodes the payload and forwards the press.
var callbackKeys = []string{
	flow.BtnLang,
	flow.BtnMenu,
	flow.BtnBackToMenu,
	flow.BtnTicketBuy,
	flow.BtnTicketView,
	flow.BtnTicketBack,
	flow.BtnTicketSrcRegion,
	flow.BtnTicketSource,
	flow.BtnTicketDstRegion,
	flow.BtnTicketDest,
	flow.BtnTicketPassengers,
	flow.BtnTicketBus,
	flow.BtnTicketConfirm,
	flow.BtnTicketCancel,
	flow.BtnTicketPayment,
	flow.BtnTicketShow,
	flow.BtnPassBus,
	flow.BtnPassType,
	flow.BtnPassBack,
	flow.BtnPassContinue,
	flow.BtnPassConfirm,
	flow.BtnPassCancel,
	flow.BtnPassPayment,
}

// transport adapts Telegram updates into engine events and engine replies
// back into Telegram sends.
type transport struct {
	engine *flow.Engine
}

func newTransport(engine *flow.Engine) *transport {
	return &transport{engine: engine}
}

func (t *transport) register(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: t.command("/start"), Description: "Start the bot"})
	reg.RegisterCommand("/menu", commands.Command{Handler: t.command("/menu"), Description: "Show main menu"})
	reg.RegisterCommand("/language", commands.Command{Handler: t.command("/language"), Description: "Change language"})
	reg.RegisterCommand("/help", commands.Command{Handler: t.command("/help"), Description: "Show help"})
	reg.RegisterCommand("/reset", commands.Command{Handler: t.command("/reset"), Description: "Reset the conversation"})
	reg.RegisterCommand("/stats", commands.Command{Handler: t.stats, Description: "Show store counters", AdminOnly: true})

	for _, key := range callbackKeys {
		key := key
		_ = reg.RegisterCallback(key, func(c tele.Context) error {
			return t.dispatch(c, flow.Event{
				Kind:    flow.KindButton,
				Button:  key,
				Payload: callbacks.CallbackPayload(c),
			})
		})
	}

	reg.SetTextFallback(t.onText)
}

func (t *transport) command(cmd string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return t.dispatch(c, flow.Event{Kind: flow.KindCommand, Command: cmd})
	}
}

func (t *transport) onText(c tele.Context) error {
	return t.dispatch(c, flow.Event{Kind: flow.KindText, Text: c.Text()})
}

func (t *transport) onDocument(c tele.Context) error {
	var att *flow.Attachment
	if msg := c.Message(); msg != nil && msg.Document != nil {
		att = &flow.Attachment{
			FileID:   msg.Document.FileID,
			MIMEType: msg.Document.MIME,
			FileName: msg.Document.FileName,
		}
	}
	return t.dispatch(c, flow.Event{Kind: flow.KindDocument, Document: att})
}

func (t *transport) stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	text, err := t.engine.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "tg.flow", "stats.failed",
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, i18n.T(i18n.Default(), i18n.MsgErrGeneric))
	}
	return tghelpers.SendText(c, text)
}

func (t *transport) dispatch(c tele.Context, ev flow.Event) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	identity := strconv.FormatInt(sender.ID, 10)
	ctx := tghelpers.BuildContext(c)

	res, err := t.engine.Handle(ctx, identity, ev)
	if err != nil {
		logger.Error(ctx, "tg.flow", "handle.failed",
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, i18n.T(i18n.Default(), i18n.MsgErrGeneric))
	}

	if err := t.deliver(c, res.Replies); err != nil {
		return err
	}
	if res.MenuReturnIn > 0 {
		t.scheduleMenuReturn(c, identity, res.MenuReturnIn)
	}
	return nil
}

func (t *transport) deliver(c tele.Context, replies []flow.Reply) error {
	for _, r := range replies {
		if err := t.send(c, r); err != nil {
			return err
		}
	}
	return nil
}

func (t *transport) send(c tele.Context, r flow.Reply) error {
	if r.Photo != nil {
		photo := &tele.Photo{
			File:    tele.FromReader(bytes.NewReader(r.Photo.PNG)),
			Caption: r.Text,
		}
		return c.Send(photo)
	}
	if r.DocumentPath != "" {
		doc := &tele.Document{
			File:     tele.FromDisk(r.DocumentPath),
			FileName: r.DocumentName,
		}
		return c.Send(doc)
	}

	opts := &tele.SendOptions{ReplyMarkup: replyMarkup(r)}
	if r.Edit {
		return c.EditOrSend(r.Text, opts)
	}
	return tghelpers.SendText(c, r.Text, opts)
}

func replyMarkup(r flow.Reply) *tele.ReplyMarkup {
	if len(r.Buttons) == 0 {
		if r.RemoveKeyboard {
			return keyboard.RemoveKeyboard()
		}
		return nil
	}
	rows := make([][]keyboard.InlineBtn, 0, len(r.Buttons))
	for _, row := range r.Buttons {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{Text: b.Text, Unique: b.Key, Data: b.Payload})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineButtonsRows(rows...)
}

// scheduleMenuReturn sends the main menu to the same chat once the delay
// elapses. The captured tele.Context stays valid for sends after the
// handler returns.
func (t *transport) scheduleMenuReturn(c tele.Context, identity string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		ctx := context.Background()
		res, err := t.engine.ReturnToMenu(ctx, identity)
		if err != nil {
			logger.Warn(ctx, "tg.flow", "menu_return.failed",
				slog.String("err", err.Error()),
			)
			return
		}
		if err := t.deliver(c, res.Replies); err != nil {
			logger.Warn(ctx, "tg.flow", "menu_return.send_failed",
				slog.String("err", err.Error()),
			)
		}
	})
}
