package store

import "authsession/internal/auth/models"

// Writer is the only way to change the session.
type Writer struct {
	store *Store
}

// Begin marks an operation in flight and clears the previous error.
func (w *Writer) Begin() {
	w.store.apply(func(s *models.Session) {
		s.IsLoading = true
		s.Error = ""
	})
}

// Finish clears the loading flag and marks the session initialized.
func (w *Writer) Finish() {
	w.store.apply(func(s *models.Session) {
		s.IsLoading = false
		s.Initialized = true
	})
}

// Fail records the message shown for the last failed operation.
func (w *Writer) Fail(message string) {
	w.store.apply(func(s *models.Session) {
		s.Error = message
	})
}

// SetUser replaces the user wholesale. A nil user is a known signed-out session.
func (w *Writer) SetUser(user *models.User) {
	w.store.apply(func(s *models.Session) {
		authenticated := user != nil
		s.IsAuthenticated = &authenticated
		if user == nil {
			s.User = nil
			return
		}
		u := user.Clone()
		s.User = &u
	})
}

// SignOut records a known signed-out session.
func (w *Writer) SignOut() {
	w.SetUser(nil)
}

// MarkInitialized records that the first session check has resolved.
func (w *Writer) MarkInitialized() {
	w.store.apply(func(s *models.Session) {
		s.Initialized = true
	})
}
