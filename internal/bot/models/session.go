package models

// MessageKind classifies the tracked live message. Telegram does not allow
// editing a text message into a photo message or back, so the renderer has
// to know which kind is currently on screen.
type MessageKind int

const (
	MessageAbsent MessageKind = iota
	MessageText
	MessagePhoto
)

// LiveMessage identifies the single chat message currently acting as the
// user's screen.
type LiveMessage struct {
	ChatID    int64
	MessageID int
	Kind      MessageKind
}

// PendingAction marks a multi-step operation awaiting the user's next
// text message. At most one is active per session.
type PendingAction int

const (
	ActionNone PendingAction = iota
	ActionAwaitingPassword
	ActionRename
	ActionChangePassword
)

// ListMode switches the file list between navigation and batch-delete
// selection.
type ListMode int

const (
	ListNormal ListMode = iota
	ListBatchDelete
)

// UserSession is per-user ephemeral UI state. It lives only in process
// memory; losing it on restart just sends the user back to /start.
type UserSession struct {
	UserID       int64
	Live         LiveMessage
	Pending      PendingAction
	RenameSource string
	Selected     map[string]struct{}
	ListPage     int
	ListMode     ListMode
}

func NewUserSession(userID int64) *UserSession {
	return &UserSession{
		UserID:   userID,
		Selected: make(map[string]struct{}),
	}
}

// Reset returns the session to its default state while keeping the live
// message reference, so the next render can still reuse or retire it.
func (s *UserSession) Reset() {
	s.Pending = ActionNone
	s.RenameSource = ""
	s.Selected = make(map[string]struct{})
	s.ListPage = 0
	s.ListMode = ListNormal
}

// ToggleSelected flips path's membership in the batch-delete selection.
func (s *UserSession) ToggleSelected(path string) {
	if _, ok := s.Selected[path]; ok {
		delete(s.Selected, path)
		return
	}
	s.Selected[path] = struct{}{}
}

// SelectedPaths returns the current selection as a slice (order unspecified).
func (s *UserSession) SelectedPaths() []string {
	paths := make([]string, 0, len(s.Selected))
	for p := range s.Selected {
		paths = append(paths, p)
	}
	return paths
}
