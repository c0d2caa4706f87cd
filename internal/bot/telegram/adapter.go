// Package telegram adapts the Telegram Bot API to the bot's internal
// contracts: it implements view.Messenger for the outbound side and turns the
// long-polling update stream into normalized router events.
package telegram

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/filekeeper/internal/bot/router"
	"github.com/dmitrijs2005/filekeeper/internal/bot/view"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/netx"
)

// Dispatcher consumes normalized inbound events; the router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev router.Event)
}

type Adapter struct {
	api    *tgbotapi.BotAPI
	client *http.Client
	logger logging.Logger
}

func NewAdapter(botToken string, logger logging.Logger) (*Adapter, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	return &Adapter{
		api:    api,
		client: http.DefaultClient,
		logger: logger.With("module", "telegram"),
	}, nil
}

// Run consumes the update stream until ctx is cancelled, dispatching one
// goroutine per event. The router serializes events per user, so concurrent
// dispatches are safe.
func (a *Adapter) Run(ctx context.Context, d Dispatcher) {
	a.registerCommands(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := a.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		a.api.StopReceivingUpdates()
	}()

	a.logger.Info(ctx, "bot started", "username", a.api.Self.UserName)

	for update := range updates {
		if update.CallbackQuery != nil {
			// stop the client-side spinner right away
			if _, err := a.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
				a.logger.Debug(ctx, "callback answer failed", "error", err)
			}
		}
		ev, ok := toEvent(update)
		if !ok {
			continue
		}
		go d.Dispatch(ctx, ev)
	}
}

// registerCommands publishes the command menu; a failure only costs the menu.
func (a *Adapter) registerCommands(ctx context.Context) {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Home screen"},
		tgbotapi.BotCommand{Command: "list", Description: "List files"},
		tgbotapi.BotCommand{Command: "search", Description: "Search files"},
		tgbotapi.BotCommand{Command: "delete", Description: "Delete a file"},
		tgbotapi.BotCommand{Command: "clear", Description: "Batch delete"},
		tgbotapi.BotCommand{Command: "setpwd", Description: "Change password (operator)"},
		tgbotapi.BotCommand{Command: "logout", Description: "Revoke your access"},
		tgbotapi.BotCommand{Command: "help", Description: "How to use"},
	)
	if _, err := a.api.Request(cmds); err != nil {
		a.logger.Warn(ctx, "set_my_commands failed", "error", err)
	}
}

// toEvent normalizes one update. Updates that carry neither a message nor a
// callback query (edits, channel posts, ...) are dropped.
func toEvent(u tgbotapi.Update) (router.Event, bool) {
	if cq := u.CallbackQuery; cq != nil && cq.From != nil {
		ev := router.Event{
			Kind:     router.EventCallback,
			UserID:   cq.From.ID,
			Username: cq.From.UserName,
			ChatID:   cq.From.ID,
			Text:     cq.Data,
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			ev.ChatID = cq.Message.Chat.ID
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.From == nil {
		return router.Event{}, false
	}
	ev := router.Event{
		Kind:     router.EventText,
		UserID:   m.From.ID,
		Username: m.From.UserName,
		ChatID:   m.Chat.ID,
		Text:     m.Text,
	}
	if att := attachmentOf(m); att != nil {
		ev.Attachment = att
		if ev.Text == "" {
			ev.Text = m.Caption
		}
	}
	return ev, true
}

func attachmentOf(m *tgbotapi.Message) *router.Attachment {
	switch {
	case m.Document != nil:
		return &router.Attachment{
			FileID:   m.Document.FileID,
			Name:     m.Document.FileName,
			MIMEType: m.Document.MimeType,
			Size:     int64(m.Document.FileSize),
			Kind:     router.AttachmentDocument,
		}
	case len(m.Photo) > 0:
		// sizes come smallest first; take the largest rendition
		photo := m.Photo[len(m.Photo)-1]
		return &router.Attachment{
			FileID: photo.FileID,
			Size:   int64(photo.FileSize),
			Kind:   router.AttachmentPhoto,
		}
	case m.Video != nil:
		return &router.Attachment{
			FileID:   m.Video.FileID,
			Name:     m.Video.FileName,
			MIMEType: m.Video.MimeType,
			Size:     int64(m.Video.FileSize),
			Kind:     router.AttachmentVideo,
		}
	}
	return nil
}

// FetchFile downloads an uploaded file's content through the file API.
func (a *Adapter) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := a.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	data, err := netx.DownloadURL(ctx, a.client, file.Link(a.api.Token))
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return data, nil
}

func toMarkup(buttons [][]view.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, btns)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (a *Adapter) SendText(ctx context.Context, chatID int64, text string, buttons [][]view.Button) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := toMarkup(buttons); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := a.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (a *Adapter) EditText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]view.Button) error {
	var err error
	if markup := toMarkup(buttons); markup != nil {
		_, err = a.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup))
	} else {
		_, err = a.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	}
	return err
}

func (a *Adapter) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, buttons [][]view.Button) (int, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "qr.png", Bytes: photo})
	msg.Caption = caption
	if markup := toMarkup(buttons); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := a.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (a *Adapter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := a.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}
