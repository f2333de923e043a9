package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agenda/internal/backend/restapi"
	"agenda/internal/config"
	"agenda/internal/menu"
	"agenda/internal/nav"
	"agenda/internal/session"
)

// authForm is the sign in / sign up form of the Auth route.
type authForm struct {
	signup   bool
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
}

func newAuthForm() authForm {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "E-mail"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return authForm{name: name, email: email, password: password}
}

// inputs returns the visible fields in focus order.
func (f *authForm) inputs() []*textinput.Model {
	if f.signup {
		return []*textinput.Model{&f.name, &f.email, &f.password}
	}
	return []*textinput.Model{&f.email, &f.password}
}

func (f *authForm) setFocus(i int) tea.Cmd {
	inputs := f.inputs()
	f.focus = (i + len(inputs)) % len(inputs)
	var cmd tea.Cmd
	for j, in := range inputs {
		if j == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (f *authForm) setSignup(on bool) tea.Cmd {
	f.signup = on
	f.name.Blur()
	return f.setFocus(0)
}

func (a *App) handleAuthKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.auth
	switch msg.String() {
	case "esc":
		return a.quit()
	case "tab", "down":
		return a, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return a, f.setFocus(f.focus - 1)
	case "ctrl+n":
		a.setStatus("", false)
		return a, f.setSignup(!f.signup)
	case "enter":
		if a.loading {
			return a, nil
		}
		return a.submitAuth()
	}

	var cmd tea.Cmd
	in := f.inputs()[f.focus]
	*in, cmd = in.Update(msg)
	return a, cmd
}

func (a *App) submitAuth() (tea.Model, tea.Cmd) {
	f := &a.auth
	name := strings.TrimSpace(f.name.Value())
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()

	if a.deps.Config != nil && a.deps.Config.Backend == config.BackendGoogle {
		a.setStatus("Google accounts sign in with: agenda login --google", true)
		return a, nil
	}
	if email == "" || password == "" || (f.signup && name == "") {
		a.setStatus("Invalid data: all fields are required", true)
		return a, nil
	}

	client := restapi.New(a.deps.Config.Server, a.deps.Session, restapi.WithLogger(a.deps.Log))
	ctx := a.ctx
	a.loading = true
	a.setStatus("", false)

	if f.signup {
		return a, func() tea.Msg {
			if err := client.Signup(ctx, name, email, password); err != nil {
				return authFailedMsg{err}
			}
			return signedUpMsg{email}
		}
	}
	return a, func() tea.Msg {
		cred, err := client.Signin(ctx, email, password)
		if err != nil {
			return authFailedMsg{err}
		}
		return signedInMsg{cred}
	}
}

func (a *App) handleSignedIn(cred session.Credential) (tea.Model, tea.Cmd) {
	if err := a.deps.Config.EnsureDir(); err != nil {
		a.loading = false
		a.setStatus(err.Error(), true)
		return a, nil
	}
	if err := session.Login(a.deps.Store, a.deps.Session, cred); err != nil {
		a.loading = false
		a.setStatus(err.Error(), true)
		return a, nil
	}
	a.auth = newAuthForm()
	a.deps.Nav.Navigate(nav.RouteHome, cred)
	return a, a.connect()
}

// logout clears the credential and returns to a fresh Auth route.
func (a *App) logout() (tea.Model, tea.Cmd) {
	a.unmountAll()
	menu.Logout(a.deps.Store, a.deps.Session, a.deps.Nav, a.deps.Log)
	a.connSeq++

	a.svc = nil
	a.screens = nil
	a.tab, a.cursor = 0, 0
	a.drawer = false
	a.form = nil
	a.loading = false
	a.auth = newAuthForm()
	a.setStatus("Signed out", false)
	return a, nil
}

func (a *App) viewAuth() string {
	f := &a.auth
	var b strings.Builder

	title := "Sign in"
	toggle := "ctrl+n create account"
	if f.signup {
		title = "Create account"
		toggle = "ctrl+n back to sign in"
	}
	b.WriteString(titleStyle.Render("agenda") + "  " + dimStyle.Render(title) + "\n\n")

	var fields []string
	for _, in := range f.inputs() {
		fields = append(fields, in.View())
	}
	b.WriteString(boxStyle.Render(strings.Join(fields, "\n")))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter submit • tab next field • " + toggle + " • esc quit"))
	return b.String()
}
