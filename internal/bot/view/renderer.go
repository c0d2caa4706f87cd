// Package view maintains the single "live" message that acts as each user's
// screen. Handlers describe the desired screen; the renderer decides whether
// the platform allows editing the current message in place or whether it has
// to be retired and replaced.
package view

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/bot/session"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// Renderer implements the live-message state machine. Per user the slot is
// in one of three states: Absent, TextLive, or PhotoLive.
//
// Telegram forbids editing a text message into a photo message (and back),
// so:
//   - a photo screen always retires the current message and sends a new one;
//   - a text screen edits in place only when the slot holds a text message,
//     falling back to retire-and-resend when it holds a photo, is absent, or
//     the edit is rejected (message too old, deleted by the user, ...).
//
// Retirement is fire and forget: a failed delete is logged and ignored, never
// surfaced, and never blocks the replacement.
type Renderer struct {
	sessions  *session.Store
	messenger Messenger
	logger    logging.Logger
}

func NewRenderer(sessions *session.Store, m Messenger, logger logging.Logger) *Renderer {
	return &Renderer{
		sessions:  sessions,
		messenger: m,
		logger:    logger.With("module", "view"),
	}
}

// Render brings the user's screen to the desired state. After it returns
// successfully, exactly one message is tracked as live for the user.
func (r *Renderer) Render(ctx context.Context, userID, chatID int64, screen Screen) error {
	live := r.sessions.Get(userID).Live

	if screen.Photo != nil {
		r.retire(ctx, userID, live)
		id, err := r.messenger.SendPhoto(ctx, chatID, screen.Photo, screen.Text, screen.Buttons)
		if err != nil {
			return err
		}
		r.record(userID, models.LiveMessage{ChatID: chatID, MessageID: id, Kind: models.MessagePhoto})
		return nil
	}

	if live.Kind == models.MessageText && live.ChatID == chatID {
		if err := r.messenger.EditText(ctx, chatID, live.MessageID, screen.Text, screen.Buttons); err == nil {
			return nil
		}
		// edit rejected: fall through to retire-and-resend
		r.logger.Debug(ctx, "in-place edit failed, resending", "user_id", userID, "message_id", live.MessageID)
	}

	r.retire(ctx, userID, live)
	id, err := r.messenger.SendText(ctx, chatID, screen.Text, screen.Buttons)
	if err != nil {
		return err
	}
	r.record(userID, models.LiveMessage{ChatID: chatID, MessageID: id, Kind: models.MessageText})
	return nil
}

// retire best-effort deletes the previous live message and clears the slot.
func (r *Renderer) retire(ctx context.Context, userID int64, live models.LiveMessage) {
	if live.Kind == models.MessageAbsent {
		return
	}
	if err := r.messenger.DeleteMessage(ctx, live.ChatID, live.MessageID); err != nil {
		r.logger.Debug(ctx, "retire failed, message probably already gone",
			"user_id", userID, "message_id", live.MessageID, "error", err)
	}
	r.record(userID, models.LiveMessage{})
}

func (r *Renderer) record(userID int64, live models.LiveMessage) {
	r.sessions.Update(userID, func(sess *models.UserSession) {
		sess.Live = live
	})
}
