package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/bot/qr"
	"github.com/dmitrijs2005/filekeeper/internal/bot/token"
	"github.com/dmitrijs2005/filekeeper/internal/bot/view"
)

// timeNow is swapped in tests for deterministic generated file names.
var timeNow = time.Now

// showList renders one page of the file list in the given mode, clamping the
// page into range and recording the position in the session.
func (r *Router) showList(ctx context.Context, ev Event, page int, mode models.ListMode) error {
	objects, err := r.repo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing objects: %w", err)
	}
	if len(objects) == 0 {
		r.sessions.Reset(ev.UserID)
		return r.render(ctx, ev, emptyListScreen())
	}

	totalPages := (len(objects) + r.cfg.PageSize - 1) / r.cfg.PageSize
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}
	start := page * r.cfg.PageSize
	end := start + r.cfg.PageSize
	if end > len(objects) {
		end = len(objects)
	}

	r.sessions.Update(ev.UserID, func(sess *models.UserSession) {
		sess.ListPage = page
		sess.ListMode = mode
		if mode == models.ListNormal {
			sess.Selected = make(map[string]struct{})
		}
	})
	selected := r.sessions.Get(ev.UserID).Selected

	return r.render(ctx, ev, listScreen(objects[start:end], page, totalPages, mode, selected, len(objects)))
}

// showSearch lists the objects whose name contains keyword (case-insensitive).
func (r *Router) showSearch(ctx context.Context, ev Event, keyword string) error {
	objects, err := r.repo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing objects: %w", err)
	}

	var matched []models.StoredObject
	for _, obj := range objects {
		if strings.Contains(strings.ToLower(obj.Path), keyword) {
			matched = append(matched, obj)
		}
	}
	if len(matched) == 0 {
		return r.render(ctx, ev, noticeScreen(fmt.Sprintf("🔍 Nothing found for %q.", keyword)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Search results (%d)\n\n", len(matched))
	var rows [][]view.Button
	for _, obj := range matched {
		fmt.Fprintf(&sb, "• %s\n", obj.Path)
		rows = append(rows, []view.Button{
			btn("📄 "+truncate(obj.Path, 35), cbView+":"+token.Register(obj.Path)),
		})
	}
	rows = append(rows, homeRow())
	return r.render(ctx, ev, view.Screen{Text: sb.String(), Buttons: rows})
}

// showDetail renders the per-file screen: share link plus its QR code.
func (r *Router) showDetail(ctx context.Context, ev Event, path string, sizeBytes int64, uploaded bool) error {
	url, err := r.shareURL(ctx, path)
	if err != nil {
		return fmt.Errorf("building share url: %w", err)
	}
	png, err := qr.PNG(url)
	if err != nil {
		return fmt.Errorf("encoding qr: %w", err)
	}
	return r.render(ctx, ev, detailScreen(path, url, png, sizeBytes, uploaded))
}

func (r *Router) shareURL(ctx context.Context, path string) (string, error) {
	if r.cfg.PublicBucket {
		return r.repo.PublicURL(path), nil
	}
	return r.repo.PresignedGetURL(ctx, path, r.cfg.PresignTTL)
}

// handleUpload stores the attachment and answers with its detail screen.
// Nameless photos and videos get a generated timestamped name.
func (r *Router) handleUpload(ctx context.Context, ev Event) error {
	att := ev.Attachment

	data, err := r.files.FetchFile(ctx, att.FileID)
	if err != nil {
		return fmt.Errorf("fetching upload: %w", err)
	}

	name := att.Name
	if name == "" {
		name = generatedName(att.Kind)
	}
	if reservedName(name) {
		return r.render(ctx, ev, noticeScreen("❌ That name is reserved."))
	}
	contentType := att.MIMEType
	if contentType == "" {
		contentType = defaultContentType(att.Kind)
	}

	if err := r.repo.Upload(ctx, name, data, contentType); err != nil {
		return fmt.Errorf("uploading %q: %w", name, err)
	}

	r.sessions.Reset(ev.UserID)
	return r.showDetail(ctx, ev, name, int64(len(data)), true)
}

func generatedName(kind AttachmentKind) string {
	stamp := timeNow().Format("20060102_150405")
	short := uuid.NewString()[:8]
	switch kind {
	case AttachmentPhoto:
		return fmt.Sprintf("photo_%s_%s.jpg", stamp, short)
	case AttachmentVideo:
		return fmt.Sprintf("video_%s_%s.mp4", stamp, short)
	default:
		return fmt.Sprintf("file_%s_%s", stamp, short)
	}
}

func defaultContentType(kind AttachmentKind) string {
	switch kind {
	case AttachmentPhoto:
		return "image/jpeg"
	case AttachmentVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// handleRenameEntry completes a pending rename. The new base keeps the
// source's extension unless the input carries its own (explicit wins).
func (r *Router) handleRenameEntry(ctx context.Context, ev Event, input string) error {
	sess := r.sessions.Get(ev.UserID)
	oldName := sess.RenameSource

	r.sessions.Update(ev.UserID, func(s *models.UserSession) {
		s.Pending = models.ActionNone
		s.RenameSource = ""
	})

	if oldName == "" || input == "" {
		return r.render(ctx, ev, noticeScreen("❌ Rename cancelled."))
	}

	newName := input
	if !strings.Contains(input, ".") {
		newName = input + extOf(oldName)
	}
	if reservedName(newName) {
		return r.render(ctx, ev, noticeScreen("❌ That name is reserved."))
	}
	if newName == oldName {
		return r.showDetail(ctx, ev, oldName, 0, false)
	}

	if err := r.repo.Move(ctx, oldName, newName); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", oldName, newName, err)
	}
	return r.showDetail(ctx, ev, newName, 0, false)
}

// handleBatchDelete removes the current selection in one storage call.
func (r *Router) handleBatchDelete(ctx context.Context, ev Event) error {
	selected := r.sessions.Get(ev.UserID).SelectedPaths()
	if len(selected) == 0 {
		return r.render(ctx, ev, noticeScreen("🧹 Nothing selected."))
	}
	if err := r.repo.Remove(ctx, selected); err != nil {
		return fmt.Errorf("batch delete: %w", err)
	}
	r.sessions.Reset(ev.UserID)
	return r.render(ctx, ev, noticeScreen(fmt.Sprintf("✅ Deleted %d file(s).", len(selected))))
}

// handleDeleteAll wipes every visible object in the bucket.
func (r *Router) handleDeleteAll(ctx context.Context, ev Event) error {
	objects, err := r.repo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("listing objects: %w", err)
	}
	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		paths = append(paths, obj.Path)
	}
	if err := r.repo.Remove(ctx, paths); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	r.sessions.Reset(ev.UserID)
	return r.render(ctx, ev, noticeScreen(fmt.Sprintf("✅ Deleted all %d file(s).", len(paths))))
}
