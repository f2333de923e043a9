package tasklist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agenda/internal/service"
	"agenda/internal/store"
)

// ErrEmptyDescription is returned by AddTask for a blank description.
var ErrEmptyDescription = errors.New("description not provided")

// Reporter surfaces failures to the user.
type Reporter interface {
	// ShowError reports a failed backend request.
	ShowError(err error)

	// Alert reports a local validation failure.
	Alert(title, message string)
}

// NopReporter discards every report.
type NopReporter struct{}

func (NopReporter) ShowError(error)      {}
func (NopReporter) Alert(string, string) {}

// Preference is the persisted filter setting.
type Preference struct {
	ShowDoneTask bool `json:"showDoneTask"`
}

// DefaultPreference is used when nothing valid is persisted.
var DefaultPreference = Preference{ShowDoneTask: true}

// Preferences loads and saves the filter setting.
type Preferences interface {
	Load() (Preference, bool)
	Save(p Preference) error
}

// StorePreferences keeps the preference under store.TasksStateKey.
type StorePreferences struct {
	Store *store.Store
}

// Load implements Preferences. A value without a showDoneTask field, such
// as null or {}, counts as absent.
func (p StorePreferences) Load() (Preference, bool) {
	var raw struct {
		ShowDoneTask *bool `json:"showDoneTask"`
	}
	if !p.Store.ReadJSON(store.TasksStateKey, &raw) || raw.ShowDoneTask == nil {
		return Preference{}, false
	}
	return Preference{ShowDoneTask: *raw.ShowDoneTask}, true
}

// Save implements Preferences.
func (p StorePreferences) Save(pref Preference) error {
	return p.Store.WriteJSON(store.TasksStateKey, pref)
}

// Screen drives one task list screen. Methods may be called from several
// goroutines; backend requests run without holding the state lock.
type Screen struct {
	svc    service.Service
	prefs  Preferences
	report Reporter
	log    *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
}

// Option configures a Screen.
type Option func(*Screen)

// WithClock overrides the clock used to compute the date bound.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Screen) { s.log = l }
}

// NewScreen creates an unmounted screen for window w.
func NewScreen(w Window, svc service.Service, prefs Preferences, report Reporter, opts ...Option) *Screen {
	if report == nil {
		report = NopReporter{}
	}
	s := &Screen{
		svc:    svc,
		prefs:  prefs,
		report: report,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		state:  Initial(w),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Screen) dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, e)
	return s.state
}

// fail surfaces err unless the screen is gone, and returns it.
func (s *Screen) fail(op string, err error) error {
	st := s.State()
	s.log.Debug("request failed", "op", op, "window", st.Window.String(), "err", err)
	if st.Mounted {
		s.report.ShowError(err)
	}
	return err
}

// Mount seeds the filter from the persisted preference and loads tasks.
func (s *Screen) Mount(ctx context.Context) error {
	pref, ok := s.prefs.Load()
	if !ok {
		pref = DefaultPreference
	}
	s.dispatch(Mounted{ShowDoneTask: pref.ShowDoneTask})
	return s.Load(ctx)
}

// Unmount detaches the screen. Responses arriving later are ignored.
func (s *Screen) Unmount() {
	s.dispatch(Unmounted{})
}

// Load replaces the task set with the tasks up to the end of the window.
// On failure the state is left untouched. A failure of a load that a newer
// one has superseded is returned but not reported.
func (s *Screen) Load(ctx context.Context) error {
	st := s.dispatch(LoadIssued{})
	if !st.Mounted {
		return nil
	}

	until := MaxDate(s.now(), st.Window)
	s.log.Debug("loading tasks", "window", st.Window.String(), "until", FormatBound(until), "seq", st.LoadSeq)

	tasks, err := s.svc.ListTasks(ctx, until)
	if err != nil {
		if cur := s.State().LoadSeq; cur != st.LoadSeq {
			s.log.Debug("stale load failed", "seq", st.LoadSeq, "latest", cur, "err", err)
			return err
		}
		return s.fail("load", err)
	}
	s.dispatch(TasksLoaded{Seq: st.LoadSeq, Tasks: tasks})
	return nil
}

// ToggleFilter flips between all and pending-only tasks and persists the
// choice. A failed write is logged only.
func (s *Screen) ToggleFilter() State {
	st := s.dispatch(FilterToggled{})
	if !st.Mounted {
		return st
	}
	if err := s.prefs.Save(Preference{ShowDoneTask: st.ShowDoneTask}); err != nil {
		s.log.Debug("save preference", "err", err)
	}
	return st
}

// OpenAddTask shows the add-task form.
func (s *Screen) OpenAddTask() State {
	return s.dispatch(AddFormOpened{})
}

// CancelAddTask hides the add-task form without a request.
func (s *Screen) CancelAddTask() State {
	return s.dispatch(AddFormClosed{})
}

// AddTask creates a task, closes the form and reloads.
// A blank description is rejected locally with ErrEmptyDescription.
func (s *Screen) AddTask(ctx context.Context, task service.NewTask) error {
	if strings.TrimSpace(task.Desc) == "" {
		s.report.Alert("Invalid data", "Description not provided!")
		return ErrEmptyDescription
	}
	if err := s.svc.CreateTask(ctx, task); err != nil {
		return s.fail("create", err)
	}
	s.dispatch(AddFormClosed{})
	return s.Load(ctx)
}

// ToggleTask flips the completion state of task id and reloads.
func (s *Screen) ToggleTask(ctx context.Context, id string) error {
	if err := s.svc.ToggleTask(ctx, id); err != nil {
		return s.fail("toggle", err)
	}
	return s.Load(ctx)
}

// DeleteTask deletes task id and reloads.
func (s *Screen) DeleteTask(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	return s.Load(ctx)
}
