// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

// # Edit/Create Session

// Mode is the state of the book form.
type Mode string

const (
	// ModeCreate submits new records.
	ModeCreate Mode = "create"
	// ModeEdit submits changes to the record being edited.
	ModeEdit Mode = "edit"
)

// SessionState is the externally visible form state.
type SessionState struct {
	Mode         Mode `json:"mode"`
	EditingIndex *int `json:"editing_index"`
}

// Session tracks whether the form creates a record or edits one.
//
// Transitions: create -BeginEdit-> edit -Submit success or CancelEdit-> create.
// A failed Submit keeps the current state so the user can retry.
type Session struct {
	repo         *Repository
	mode         Mode
	editingIndex int
}

// NewSession returns a session in create mode over repo.
func NewSession(repo *Repository) *Session {
	return &Session{repo: repo, mode: ModeCreate}
}

// BeginEdit switches to edit mode for the record at index and returns its
// current values so the caller can populate the form.
func (s *Session) BeginEdit(index int) (Fields, error) {
	b, err := s.repo.Get(index)
	if err != nil {
		return Fields{}, err
	}

	s.mode = ModeEdit
	s.editingIndex = index

	return fieldsOf(b), nil
}

// CancelEdit returns to create mode.
func (s *Session) CancelEdit() {
	s.reset()
}

// Submit creates or updates a record depending on the mode.
func (s *Session) Submit(fields Fields) error {
	var err error
	if s.mode == ModeEdit {
		err = s.repo.Update(s.editingIndex, fields)
	} else {
		err = s.repo.Create(fields)
	}

	if err != nil {
		return err
	}

	s.reset()
	return nil
}

// State returns the current mode and, in edit mode, the edited index.
func (s *Session) State() SessionState {
	state := SessionState{Mode: s.mode}
	if s.mode == ModeEdit {
		index := s.editingIndex
		state.EditingIndex = &index
	}
	return state
}

// Editing reports whether the session is in edit mode.
func (s *Session) Editing() bool {
	return s.mode == ModeEdit
}

// recordDeleted keeps the editing index pointed at the same record after a
// delete: it resets when that record is removed and shifts when an earlier one is.
func (s *Session) recordDeleted(index int) {
	if s.mode != ModeEdit {
		return
	}

	switch {
	case index == s.editingIndex:
		s.reset()
	case index < s.editingIndex:
		s.editingIndex--
	}
}

// restore puts the session back into a previously observed state.
func (s *Session) restore(state SessionState) {
	if state.Mode != ModeEdit || state.EditingIndex == nil {
		s.reset()
		return
	}
	s.mode = ModeEdit
	s.editingIndex = *state.EditingIndex
}

func (s *Session) reset() {
	s.mode = ModeCreate
	s.editingIndex = 0
}
