// Package flow implements the per-user conversation engine: given the
// session's current state and an inbound event, it decides the next state,
// the working-set writes, and the replies to send.
package flow

import (
	"time"

	"github.com/m3rciful/transitbot/bot/qr"
)

// Kind discriminates inbound event variants.
type Kind int

const (
	// KindCommand is a slash command such as /start.
	KindCommand Kind = iota + 1
	// KindText is free-form text.
	KindText
	// KindButton is an inline button press.
	KindButton
	// KindDocument is a file attachment.
	KindDocument
)

// Attachment describes an uploaded document.
type Attachment struct {
	FileID   string
	MIMEType string
	FileName string
}

// Event is one inbound update, already decoded by the transport adapter.
// Exactly the fields matching Kind are set.
type Event struct {
	Kind     Kind
	Command  string
	Text     string
	Button   string
	Payload  string
	Document *Attachment
}

// Button is one inline choice offered to the user. Key and Payload round-trip
// through the transport back into a Button event.
type Button struct {
	Text    string
	Key     string
	Payload string
}

// Reply is one transport-agnostic outbound message.
type Reply struct {
	Text    string
	Buttons [][]Button
	// Edit asks the transport to update the message the triggering button
	// was attached to instead of sending a new one.
	Edit bool
	// Photo attaches a rendered QR image; Text becomes the caption.
	Photo *qr.Reference
	// DocumentPath/DocumentName attach a file from disk.
	DocumentPath string
	DocumentName string
	// RemoveKeyboard clears any lingering reply keyboard.
	RemoveKeyboard bool
}

// Result is the outcome of handling one event.
type Result struct {
	Replies []Reply
	// MenuReturnIn asks the transport to call Engine.ReturnToMenu for this
	// identity after the delay; zero means no scheduled return.
	MenuReturnIn time.Duration
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

func editReply(text string, rows ...[]Button) Reply {
	return Reply{Text: text, Buttons: rows, Edit: true}
}

func sendReply(text string, rows ...[]Button) Reply {
	return Reply{Text: text, Buttons: rows}
}

func oneReply(r Reply) Result {
	return Result{Replies: []Reply{r}}
}
