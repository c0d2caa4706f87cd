// Package router dispatches inbound chat events to operation handlers. It is
// the only place that decides what the user sees next: every handler ends by
// describing a screen to the view renderer.
//
// Authorization is re-checked on every privileged branch at dispatch time,
// never cached from an earlier event, because the shared secret or the
// allow-list may have been changed by another process in between.
package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/bot/auth"
	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/bot/session"
	"github.com/dmitrijs2005/filekeeper/internal/bot/storage"
	"github.com/dmitrijs2005/filekeeper/internal/bot/token"
	"github.com/dmitrijs2005/filekeeper/internal/bot/view"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// ScreenRenderer abstracts the view renderer; view.Renderer satisfies it.
type ScreenRenderer interface {
	Render(ctx context.Context, userID, chatID int64, screen view.Screen) error
}

// Config carries the routing-relevant settings.
type Config struct {
	// PageSize is the number of entries per file-list page.
	PageSize int
	// PublicBucket selects direct public URLs for share links; when false,
	// presigned URLs with PresignTTL lifetime are handed out instead.
	PublicBucket bool
	PresignTTL   time.Duration
}

type Router struct {
	cfg      Config
	gate     *auth.Gate
	sessions *session.Store
	registry *token.Registry
	repo     storage.Repository
	renderer ScreenRenderer
	files    FileFetcher
	logger   logging.Logger
}

func New(cfg Config, gate *auth.Gate, sessions *session.Store, registry *token.Registry,
	repo storage.Repository, renderer ScreenRenderer, files FileFetcher, logger logging.Logger) *Router {
	return &Router{
		cfg:      cfg,
		gate:     gate,
		sessions: sessions,
		registry: registry,
		repo:     repo,
		renderer: renderer,
		files:    files,
		logger:   logger.With("module", "router"),
	}
}

// Dispatch handles one inbound event to completion. Events for the same user
// are serialized by the per-user session lock; events for different users run
// concurrently. Collaborator failures never escape: they render as an error
// screen and are logged.
func (r *Router) Dispatch(ctx context.Context, ev Event) {
	r.sessions.Lock(ev.UserID)
	defer r.sessions.Unlock(ev.UserID)

	var err error
	switch ev.Kind {
	case EventCallback:
		err = r.handleCallback(ctx, ev)
	default:
		err = r.handleText(ctx, ev)
	}
	if err != nil {
		r.logger.Error(ctx, "handler failed", "user_id", ev.UserID, "error", err)
		if renderErr := r.render(ctx, ev, errorScreen("Operation")); renderErr != nil {
			r.logger.Error(ctx, "error screen render failed", "user_id", ev.UserID, "error", renderErr)
		}
	}
}

func (r *Router) render(ctx context.Context, ev Event, screen view.Screen) error {
	return r.renderer.Render(ctx, ev.UserID, ev.ChatID, screen)
}

// requireAuth gates a privileged branch. Unauthorized users get the password
// prompt and the AwaitingPassword pending action; the caller must return
// without doing anything else.
func (r *Router) requireAuth(ctx context.Context, ev Event) (bool, error) {
	if r.gate.IsAuthorized(ctx, ev.UserID, ev.Username) {
		return true, nil
	}
	r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
		sess.Pending = models.ActionAwaitingPassword
	})
	return false, r.render(ctx, ev, passwordPromptScreen(false))
}

func (r *Router) handleText(ctx context.Context, ev Event) error {
	if ev.Attachment != nil {
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.handleUpload(ctx, ev)
	}

	text := strings.TrimSpace(ev.Text)
	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, ev, text)
	}

	// privileged pending actions re-check authorization at dispatch time:
	// the allow-list may have changed since the action was started
	switch r.sessions.Get(ev.UserID).Pending {
	case models.ActionAwaitingPassword:
		return r.handlePasswordEntry(ctx, ev, text)
	case models.ActionRename:
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.handleRenameEntry(ctx, ev, text)
	case models.ActionChangePassword:
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.handleSecretEntry(ctx, ev, text)
	}

	ok, err := r.requireAuth(ctx, ev)
	if !ok || err != nil {
		return err
	}
	if text == "" {
		return r.render(ctx, ev, homeScreen())
	}
	// plain text from an authorized user is a filename search
	return r.showSearch(ctx, ev, strings.ToLower(text))
}

func (r *Router) handleCommand(ctx context.Context, ev Event, text string) error {
	cmd, args, _ := strings.Cut(text, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/start":
		r.sessions.Reset(ev.UserID)
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.render(ctx, ev, homeScreen())

	case "/cancel":
		r.sessions.Reset(ev.UserID)
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.render(ctx, ev, homeScreen())

	case "/help":
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.render(ctx, ev, helpScreen())

	case "/list":
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.showList(ctx, ev, 0, models.ListNormal)

	case "/search":
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		if args == "" {
			return r.render(ctx, ev, noticeScreen("🔍 Send a keyword, e.g. /search apk"))
		}
		return r.showSearch(ctx, ev, strings.ToLower(args))

	case "/delete":
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		if args == "" {
			return r.render(ctx, ev, noticeScreen("🗑 Send a file name, e.g. /delete test.apk"))
		}
		if reservedName(args) {
			return r.render(ctx, ev, noticeScreen("❌ That name is reserved."))
		}
		if err := r.repo.Remove(ctx, []string{args}); err != nil {
			return err
		}
		return r.showList(ctx, ev, 0, models.ListNormal)

	case "/clear":
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.showList(ctx, ev, 0, models.ListBatchDelete)

	case "/setpwd":
		if !r.gate.IsOperator(ev.Username) {
			return r.render(ctx, ev, noticeScreen("❌ Only an operator can change the password."))
		}
		if args == "" {
			r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
				sess.Pending = models.ActionChangePassword
			})
			return r.render(ctx, ev, view.Screen{Text: "🔑 Send the new password.\n\nSend /cancel to abort."})
		}
		r.gate.SetSecret(ctx, args)
		return r.render(ctx, ev, noticeScreen("✅ Password updated."))

	case "/logout":
		r.gate.Revoke(ctx, ev.UserID)
		r.sessions.Reset(ev.UserID)
		r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
			sess.Pending = models.ActionAwaitingPassword
		})
		return r.render(ctx, ev, passwordPromptScreen(false))
	}

	ok, err := r.requireAuth(ctx, ev)
	if !ok || err != nil {
		return err
	}
	return r.render(ctx, ev, helpScreen())
}

func (r *Router) handlePasswordEntry(ctx context.Context, ev Event, candidate string) error {
	if !r.gate.CheckSecret(ctx, candidate) {
		return r.render(ctx, ev, passwordPromptScreen(true))
	}
	r.gate.Grant(ctx, ev.UserID)
	r.sessions.Reset(ev.UserID)
	return r.render(ctx, ev, homeScreen())
}

func (r *Router) handleSecretEntry(ctx context.Context, ev Event, newSecret string) error {
	r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
		sess.Pending = models.ActionNone
	})
	if !r.gate.IsOperator(ev.Username) {
		return r.render(ctx, ev, noticeScreen("❌ Only an operator can change the password."))
	}
	if newSecret == "" {
		return r.render(ctx, ev, homeScreen())
	}
	r.gate.SetSecret(ctx, newSecret)
	return r.render(ctx, ev, noticeScreen("✅ Password updated."))
}

func (r *Router) handleCallback(ctx context.Context, ev Event) error {
	parts := strings.Split(ev.Text, ":")
	action := parts[0]

	if action == cbHome {
		r.sessions.Reset(ev.UserID)
		ok, err := r.requireAuth(ctx, ev)
		if !ok || err != nil {
			return err
		}
		return r.render(ctx, ev, homeScreen())
	}

	ok, err := r.requireAuth(ctx, ev)
	if !ok || err != nil {
		return err
	}

	switch action {
	case cbHelp:
		return r.render(ctx, ev, helpScreen())

	case cbList:
		if len(parts) != 3 {
			return r.render(ctx, ev, staleScreen())
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			return r.render(ctx, ev, staleScreen())
		}
		mode := models.ListNormal
		if parts[2] == modeBatch {
			mode = models.ListBatchDelete
		}
		return r.showList(ctx, ev, page, mode)

	case cbView:
		if len(parts) != 2 {
			return r.render(ctx, ev, staleScreen())
		}
		return r.withResolved(ctx, ev, parts[1], func(path string) error {
			return r.showDetail(ctx, ev, path, 0, false)
		})

	case cbDelete:
		if len(parts) != 2 {
			return r.render(ctx, ev, staleScreen())
		}
		return r.withResolved(ctx, ev, parts[1], func(path string) error {
			return r.render(ctx, ev, confirmDeleteScreen(path, parts[1]))
		})

	case cbDeleteOK:
		if len(parts) != 2 {
			return r.render(ctx, ev, staleScreen())
		}
		return r.withResolved(ctx, ev, parts[1], func(path string) error {
			if err := r.repo.Remove(ctx, []string{path}); err != nil {
				return err
			}
			return r.showList(ctx, ev, 0, models.ListNormal)
		})

	case cbRename:
		if len(parts) != 2 {
			return r.render(ctx, ev, staleScreen())
		}
		return r.withResolved(ctx, ev, parts[1], func(path string) error {
			r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
				sess.Pending = models.ActionRename
				sess.RenameSource = path
			})
			return r.render(ctx, ev, renamePromptScreen(path, extOf(path)))
		})

	case cbSelect:
		if len(parts) != 3 {
			return r.render(ctx, ev, staleScreen())
		}
		page, err := strconv.Atoi(parts[2])
		if err != nil {
			return r.render(ctx, ev, staleScreen())
		}
		return r.withResolved(ctx, ev, parts[1], func(path string) error {
			r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
				sess.ToggleSelected(path)
			})
			return r.showList(ctx, ev, page, models.ListBatchDelete)
		})

	case cbBatchOK:
		return r.handleBatchDelete(ctx, ev)

	case cbDeleteAll:
		return r.render(ctx, ev, confirmDeleteAllScreen())

	case cbDeleteAllY:
		return r.handleDeleteAll(ctx, ev)
	}

	return r.render(ctx, ev, staleScreen())
}

// withResolved resolves tok and runs fn with the live path. A stale token is
// not an error: the user just gets asked to refresh.
func (r *Router) withResolved(ctx context.Context, ev Event, tok string, fn func(path string) error) error {
	path, err := r.registry.Resolve(ctx, tok)
	if errors.Is(err, common.ErrStaleToken) {
		return r.render(ctx, ev, staleScreen())
	}
	if err != nil {
		return err
	}
	return fn(path)
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// reservedName reports whether a user-supplied file name reaches into the
// bot's hidden prefix, where the auth document lives. Such names must never
// be uploaded to, renamed to, or deleted.
func reservedName(name string) bool {
	return strings.HasPrefix(name, storage.HiddenPrefix)
}
