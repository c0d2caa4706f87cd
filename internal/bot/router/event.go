package router

import "context"

// EventKind distinguishes the two inbound event classes the chat platform
// delivers: plain messages and inline-button presses.
type EventKind int

const (
	EventText EventKind = iota
	EventCallback
)

// AttachmentKind classifies an uploaded file, used to pick a generated name
// and a default content type when the platform supplies neither.
type AttachmentKind int

const (
	AttachmentDocument AttachmentKind = iota
	AttachmentPhoto
	AttachmentVideo
)

// Attachment describes a file carried by an inbound message. FileID is the
// platform's opaque reference, resolved to bytes via FileFetcher.
type Attachment struct {
	FileID   string
	Name     string
	MIMEType string
	Size     int64
	Kind     AttachmentKind
}

// Event is a normalized inbound chat event. For EventText, Text is the
// message text (possibly empty when only an attachment is present); for
// EventCallback it is the button payload.
type Event struct {
	Kind       EventKind
	UserID     int64
	Username   string
	ChatID     int64
	Text       string
	Attachment *Attachment
}

// FileFetcher downloads an uploaded file's content by its platform file id.
// The telegram adapter implements it.
type FileFetcher interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}
