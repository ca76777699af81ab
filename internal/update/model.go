package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"cadence/internal/config"
	domainmodel "cadence/internal/model"
	"cadence/internal/scheduler"
	"cadence/internal/storage"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Quit        string
	Down        string
	Up          string
	Filter      string
	Add         string
	Start       string
	Cancel      string
	Complete    string
	Delete      string
	SeekBack    string
	SeekForward string
	EditRepeat  string
	EditWhen    string
	Export      string
	Help        string
}

func DefaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Quit:        "q",
		Down:        "j",
		Up:          "k",
		Filter:      "f",
		Add:         "a",
		Start:       "s",
		Cancel:      "x",
		Complete:    "c",
		Delete:      "d",
		SeekBack:    "h",
		SeekForward: "l",
		EditRepeat:  "r",
		EditWhen:    "w",
		Export:      "e",
		Help:        "?",
	}
}

// EditorField identifies which task field the inline editor is bound to.
type EditorField string

const (
	FieldName   EditorField = "name"
	FieldRepeat EditorField = "repeat"
	FieldWhen   EditorField = "scheduled date"
)

type EditorState struct {
	Active bool
	Field  EditorField
	Err    string
}

type ConfirmState struct {
	Active bool
	Task   domainmodel.Task
}

type PaletteState struct {
	Active bool
}

type Model struct {
	Repo      storage.Repository
	Watcher   *scheduler.Watcher
	Logger    *zap.Logger
	Cfg       config.Config
	Keys      GlobalKeyMap
	Now       func() time.Time
	Tasks     []domainmodel.Task
	Cursor    int
	Filter    domainmodel.Lifecycle // empty means all
	Status    StatusBar
	Editor    EditorState
	Confirm   ConfirmState
	Palette   PaletteState
	DueNote   string
	HelpShown bool
	Quitting  bool
	LastError error

	editorInput  textinput.Model
	paletteInput textinput.Model
}

func NewModel(repo storage.Repository, watcher *scheduler.Watcher, logger *zap.Logger, cfg config.Config) Model {
	editor := textinput.New()
	editor.CharLimit = 200
	palette := textinput.New()
	palette.Prompt = "/"
	palette.CharLimit = 200

	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		Repo:         repo,
		Watcher:      watcher,
		Logger:       logger,
		Cfg:          cfg,
		Keys:         DefaultKeyMap(),
		Now:          time.Now,
		editorInput:  editor,
		paletteInput: palette,
	}
}

func (m Model) selectedTask() *domainmodel.Task {
	if m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return nil
	}
	return &m.Tasks[m.Cursor]
}

// Messages.

type TasksLoadedMsg struct {
	Tasks []domainmodel.Task
}

type ActionAppliedMsg struct {
	Action domainmodel.Action
	Name   string
}

type TaskCreatedMsg struct {
	Name string
}

type FieldEditedMsg struct {
	Field EditorField
	Name  string
}

type ExportDoneMsg struct {
	Path  string
	Count int
}

type DueMsg struct {
	Event scheduler.DueEvent
}

type AppErrorMsg struct {
	Err error
}
