package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agenda/internal/menu"
	"agenda/internal/output"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/tasklist"
)

// dateLayout is the layout of the add form date field.
const dateLayout = "2006-01-02"

// addForm is the add-task form of the current screen.
type addForm struct {
	desc  textinput.Model
	date  textinput.Model
	focus int
}

func newAddForm(today time.Time) *addForm {
	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 200
	desc.Focus()

	date := textinput.New()
	date.Placeholder = dateLayout
	date.CharLimit = len(dateLayout)
	date.SetValue(today.Format(dateLayout))

	return &addForm{desc: desc, date: date}
}

func (f *addForm) toggleFocus() tea.Cmd {
	f.focus = 1 - f.focus
	if f.focus == 0 {
		f.date.Blur()
		return f.desc.Focus()
	}
	f.desc.Blur()
	return f.date.Focus()
}

func (a *App) handleConnected(svc service.Service) (tea.Model, tea.Cmd) {
	a.svc = svc
	cred, ok := a.credential()
	if !ok {
		cred, _ = a.deps.Session.Credential()
	}
	a.menu = menu.New(cred)

	prefs := tasklist.StorePreferences{Store: a.deps.Store}
	a.screens = make([]*tasklist.Screen, len(tasklist.Windows))
	for i, w := range tasklist.Windows {
		a.screens[i] = tasklist.NewScreen(w, svc, prefs, a.notes,
			tasklist.WithClock(a.deps.Now),
			tasklist.WithLogger(a.deps.Log),
		)
	}
	a.tab, a.cursor = 0, 0
	return a, a.mount(0)
}

// screenOp runs op against the screen of tab off the update loop.
func (a *App) screenOp(tab int, op func(*tasklist.Screen) error) tea.Cmd {
	scr := a.screens[tab]
	a.loading = true
	return func() tea.Msg {
		return screenDoneMsg{tab: tab, err: op(scr)}
	}
}

func (a *App) mount(tab int) tea.Cmd {
	ctx := a.ctx
	return a.screenOp(tab, func(s *tasklist.Screen) error { return s.Mount(ctx) })
}

func (a *App) unmountAll() {
	for _, scr := range a.screens {
		scr.Unmount()
	}
}

func (a *App) handleScreenDone(msg screenDoneMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if note := a.notes.take(); note != "" {
		a.setStatus(note, true)
	} else if msg.err == nil && a.statusErr {
		a.setStatus("", false)
	}

	if scr := a.current(); scr != nil && msg.tab == a.tab {
		if a.form != nil && !scr.State().ShowAddTask {
			a.form = nil
		}
		a.clampCursor()
	}
	return a, nil
}

// current returns the screen of the active tab.
func (a *App) current() *tasklist.Screen {
	if a.tab < 0 || a.tab >= len(a.screens) {
		return nil
	}
	return a.screens[a.tab]
}

func (a *App) clampCursor() {
	n := 0
	if scr := a.current(); scr != nil {
		n = len(scr.State().VisibleTasks)
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) selectedTask() (service.Task, bool) {
	scr := a.current()
	if scr == nil {
		return service.Task{}, false
	}
	visible := scr.State().VisibleTasks
	if a.cursor < 0 || a.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[a.cursor], true
}

func (a *App) switchToTab(tab int) (tea.Model, tea.Cmd) {
	if len(a.screens) == 0 {
		return a, nil
	}
	tab = (tab + len(a.screens)) % len(a.screens)
	if tab == a.tab {
		return a, nil
	}
	if a.form != nil {
		a.current().CancelAddTask()
		a.form = nil
	}
	a.tab, a.cursor = tab, 0
	if !a.screens[tab].State().Mounted {
		return a, a.mount(tab)
	}
	return a, nil
}

func (a *App) handleHomeKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form != nil {
		return a.handleFormKeyMsg(msg)
	}
	if a.drawer {
		return a.handleDrawerKeyMsg(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return a.quit()
	case "m":
		a.drawer = true
		return a, nil
	case "tab", "right", "L":
		return a.switchToTab(a.tab + 1)
	case "shift+tab", "left", "H":
		return a.switchToTab(a.tab - 1)
	case "1", "2", "3", "4":
		return a.switchToTab(int(key[0] - '1'))
	}

	scr := a.current()
	if scr == nil || a.loading {
		return a, nil
	}
	ctx := a.ctx

	switch key {
	case "j", "down":
		a.cursor++
		a.clampCursor()
	case "k", "up":
		a.cursor--
		a.clampCursor()
	case " ", "space", "enter", "x":
		if task, ok := a.selectedTask(); ok {
			return a, a.screenOp(a.tab, func(s *tasklist.Screen) error { return s.ToggleTask(ctx, task.ID) })
		}
	case "d", "delete":
		if task, ok := a.selectedTask(); ok {
			return a, a.screenOp(a.tab, func(s *tasklist.Screen) error { return s.DeleteTask(ctx, task.ID) })
		}
	case "f":
		scr.ToggleFilter()
		a.clampCursor()
	case "a":
		scr.OpenAddTask()
		a.form = newAddForm(a.deps.Now())
	case "r":
		return a, a.screenOp(a.tab, func(s *tasklist.Screen) error { return s.Load(ctx) })
	}
	return a, nil
}

func (a *App) handleDrawerKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		return a.logout()
	case "q":
		return a.quit()
	case "esc", "m":
		a.drawer = false
	}
	return a, nil
}

func (a *App) handleFormKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch msg.String() {
	case "esc":
		a.current().CancelAddTask()
		a.form = nil
		return a, nil
	case "tab", "shift+tab":
		return a, f.toggleFocus()
	case "enter":
		if a.loading {
			return a, nil
		}
		return a.submitAddForm()
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.desc, cmd = f.desc.Update(msg)
	} else {
		f.date, cmd = f.date.Update(msg)
	}
	return a, cmd
}

func (a *App) submitAddForm() (tea.Model, tea.Cmd) {
	now := a.deps.Now()
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(a.form.date.Value()), now.Location())
	if err != nil {
		a.setStatus("Invalid data: date must be "+dateLayout, true)
		return a, nil
	}
	task := service.NewTask{
		Desc:       a.form.desc.Value(),
		EstimateAt: time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()),
	}
	ctx := a.ctx
	return a, a.screenOp(a.tab, func(s *tasklist.Screen) error { return s.AddTask(ctx, task) })
}

func (a *App) viewHome() string {
	scr := a.current()
	if scr == nil {
		return titleStyle.Render("agenda") + "\n"
	}
	st := scr.State()
	now := a.deps.Now()

	var tabs []string
	for i, w := range tasklist.Windows {
		tabs = append(tabs, tabStyle(w, i == a.tab).Render(fmt.Sprintf("%d %s", i+1, w.Title())))
	}

	filter := "all tasks"
	if !st.ShowDoneTask {
		filter = "pending only"
	}
	header := headerStyle(st.Window).Render(st.Window.Title()+"  "+now.Format(output.DateLayout)) +
		"  " + dimStyle.Render(filter)

	var body strings.Builder
	body.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	body.WriteString("\n\n" + header + "\n")

	if len(st.VisibleTasks) == 0 {
		body.WriteString(dimStyle.Render("No tasks") + "\n")
	}
	for i, task := range st.VisibleTasks {
		body.WriteString(a.renderTask(i, task, st.Window) + "\n")
	}

	if a.form != nil {
		body.WriteString("\n" + boxStyle.BorderForeground(accent(st.Window)).Render(
			titleStyle.Render("New task")+"\n"+a.form.desc.View()+"\n"+a.form.date.View()))
		body.WriteString("\n" + hintStyle.Render("enter save • tab next field • esc cancel"))
	} else if a.drawer {
		body.WriteString("\n" + hintStyle.Render("l logout • esc close"))
	} else {
		body.WriteString("\n" + hintStyle.Render("j/k move • space done • d delete • a add • f filter • r reload • 1-4 tabs • m menu • q quit"))
	}

	if !a.drawer {
		return body.String()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, drawerStyle.Render(a.viewDrawer()), body.String())
}

func (a *App) renderTask(i int, task service.Task, w tasklist.Window) string {
	marker := "  "
	if i == a.cursor {
		marker = lipgloss.NewStyle().Foreground(accent(w)).Render("> ")
	}
	check, date, style := "[ ]", task.EstimateAt, lipgloss.NewStyle()
	if !task.Pending() {
		check, date, style = "[x]", *task.DoneAt, doneStyle
	}
	desc := strings.ReplaceAll(strings.TrimSpace(task.Desc), "\n", " ")
	return marker + check + " " + style.Render(desc) + "  " + dimStyle.Render(date.Format(output.DateLayout))
}

func (a *App) viewDrawer() string {
	name := a.menu.Name
	if name == "" {
		name = "(unnamed)"
	}
	return titleStyle.Render(name) + "\n" +
		a.menu.Email + "\n" +
		dimStyle.Render(a.menu.Avatar) + "\n\n" +
		"Logout (l)"
}

// credential is the credential forwarded with the Home route.
func (a *App) credential() (session.Credential, bool) {
	cred, ok := a.deps.Nav.Current().Params.(session.Credential)
	return cred, ok
}
