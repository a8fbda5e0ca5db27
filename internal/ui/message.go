package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/upform/internal/form"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFileLoaded MsgKind = iota
	MsgUploadFinished
	MsgBrowserOpened
)

// fileLoaded carries the load sequence and form generation captured when the read started.
type fileLoaded struct {
	seq        uint64
	generation uint64
	file       *form.File
	err        error
}

type uploadFinished struct {
	submission form.Submission
	outcome    form.Outcome
}

// fileLoadedMsg is the constructor for [MsgFileLoaded]
func fileLoadedMsg(seq, generation uint64, file *form.File, err error) Msg {
	return Msg{kind: MsgFileLoaded, data: fileLoaded{seq, generation, file, err}}
}

// uploadFinishedMsg is the constructor for [MsgUploadFinished]
func uploadFinishedMsg(sub form.Submission, outcome form.Outcome) Msg {
	return Msg{kind: MsgUploadFinished, data: uploadFinished{sub, outcome}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
