package view

import "context"

// Button is one inline keyboard button; Data is the callback payload.
type Button struct {
	Label string
	Data  string
}

// Screen describes what the user should see: a text (or photo caption),
// an optional button grid, and an optional PNG image. Handlers build Screens
// and never talk to the messaging platform directly.
type Screen struct {
	Text    string
	Buttons [][]Button
	Photo   []byte
}

// Messenger is the outbound half of the chat platform. Send calls return the
// new message id; DeleteMessage is best-effort (the message may already be
// gone).
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, buttons [][]Button) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]Button) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, buttons [][]Button) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
