// Package tui provides the interactive terminal interface: a sign-in form
// and the Today/Tomorrow/Week/Month task lists with a drawer menu.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"agenda/internal/config"
	"agenda/internal/menu"
	"agenda/internal/nav"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
	"agenda/internal/tasklist"
)

// Deps are the collaborators of the App.
type Deps struct {
	Config  *config.Config
	Store   *store.Store
	Session *session.Session
	Nav     *nav.Stack
	Log     *slog.Logger

	// Connect creates the task backend once a credential is attached.
	Connect func(ctx context.Context) (service.Service, error)

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// App is the main Bubble Tea model for the application.
type App struct {
	ctx  context.Context
	deps Deps

	// Auth route
	auth authForm

	// Home route
	svc     service.Service
	screens []*tasklist.Screen
	tab     int
	cursor  int
	drawer  bool
	menu    menu.Menu
	form    *addForm
	connSeq int

	// UI state
	loading   bool
	statusMsg string
	statusErr bool
	width     int
	height    int
	spinner   spinner.Model
	notes     *notifier
}

// New creates an App. The session bootstrap runs on Init unless the
// navigation stack already holds a route.
func New(ctx context.Context, deps Deps) *App {
	if deps.Nav == nil {
		deps.Nav = &nav.Stack{}
	}
	if deps.Log == nil {
		deps.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &App{
		ctx:     ctx,
		deps:    deps,
		auth:    newAuthForm(),
		spinner: s,
		notes:   &notifier{},
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, deps Deps, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, deps),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Message types
type signedInMsg struct{ cred session.Credential }
type signedUpMsg struct{ email string }
type authFailedMsg struct{ err error }
type connectedMsg struct {
	seq int
	svc service.Service
}

type connectFailedMsg struct {
	seq int
	err error
}
type screenDoneMsg struct {
	tab int
	err error
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.bootstrap(),
	)
}

// bootstrap resolves the start route and connects when signed in.
func (a *App) bootstrap() tea.Cmd {
	if a.deps.Nav.Depth() == 0 {
		session.Bootstrap(a.deps.Store, a.deps.Session, a.deps.Nav)
	}
	if a.route() != nav.RouteHome {
		return nil
	}
	a.loading = true
	return a.connect()
}

func (a *App) route() nav.Route {
	return a.deps.Nav.Current().Route
}

func (a *App) connect() tea.Cmd {
	a.connSeq++
	ctx, connect, seq := a.ctx, a.deps.Connect, a.connSeq
	return func() tea.Msg {
		svc, err := connect(ctx)
		if err != nil {
			return connectFailedMsg{seq, err}
		}
		return connectedMsg{seq, svc}
	}
}

// staleConnect reports whether a connect result no longer applies: the
// user signed out, or a newer connect was issued, after it started.
func (a *App) staleConnect(seq int) bool {
	return seq != a.connSeq || a.route() != nav.RouteHome
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.route() == nav.RouteHome {
			return a.handleHomeKeyMsg(msg)
		}
		return a.handleAuthKeyMsg(msg)

	case signedInMsg:
		return a.handleSignedIn(msg.cred)

	case signedUpMsg:
		a.loading = false
		a.auth.setSignup(false)
		a.auth.email.SetValue(msg.email)
		a.setStatus("Account created, sign in to continue", false)
		return a, nil

	case authFailedMsg:
		a.loading = false
		a.setStatus(msg.err.Error(), true)
		return a, nil

	case connectedMsg:
		if a.staleConnect(msg.seq) {
			return a, nil
		}
		return a.handleConnected(msg.svc)

	case connectFailedMsg:
		if a.staleConnect(msg.seq) {
			return a, nil
		}
		a.loading = false
		a.setStatus(msg.err.Error(), true)
		return a, nil

	case screenDoneMsg:
		return a.handleScreenDone(msg)
	}

	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.unmountAll()
	return a, tea.Quit
}

func (a *App) setStatus(msg string, isErr bool) {
	a.statusMsg = msg
	a.statusErr = isErr
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	if a.route() == nav.RouteHome {
		b.WriteString(a.viewHome())
	} else {
		b.WriteString(a.viewAuth())
	}

	b.WriteString("\n")
	if a.loading {
		b.WriteString(a.spinner.View() + " ")
	}
	if a.statusMsg != "" {
		if a.statusErr {
			b.WriteString(errorStyle.Render(a.statusMsg))
		} else {
			b.WriteString(dimStyle.Render(a.statusMsg))
		}
	}
	b.WriteString("\n")
	return b.String()
}
