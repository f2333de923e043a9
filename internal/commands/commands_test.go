package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"agenda/internal/commands"
	"agenda/internal/config"
	"agenda/internal/exitcode"
	"agenda/internal/nav"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
	"agenda/internal/testutil"
)

var testNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

var testCred = session.Credential{Token: "tok", Name: "Ana", Email: "ana@example.com"}

// newEnv builds the environment a command sees after the session bootstrap.
// With signedIn the credential is persisted first.
func newEnv(t *testing.T, svc service.Service, signedIn bool) *commands.Env {
	t.Helper()
	dir := t.TempDir()
	st := store.New(dir)
	if signedIn {
		if err := st.WriteJSON(store.UserDataKey, testCred); err != nil {
			t.Fatalf("seed credential: %v", err)
		}
	}
	sess := session.New()
	stack := &nav.Stack{}
	session.Bootstrap(st, sess, stack)

	return &commands.Env{
		Config:  &config.Config{Dir: dir, Server: "http://127.0.0.1:1", Backend: config.BackendREST},
		Store:   st,
		Session: sess,
		Nav:     stack,
		Log:     (&config.Config{}).Logger(io.Discard),
		Service: svc,
		Now:     func() time.Time { return testNow },
	}
}

// runCommand parses args with the command's own flags and runs it.
func runCommand(t *testing.T, cmd commands.Command, env *commands.Env, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), env, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seededService holds two tasks for today (one done) and one for Thursday.
func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.Now = func() time.Time { return testNow }
	svc.AddTaskWithID("a", "A", testNow, nil)
	done := testNow.Add(time.Hour)
	svc.AddTaskWithID("b", "B", testNow, &done)
	svc.AddTaskWithID("c", "C", testNow.AddDate(0, 0, 3), nil)
	return svc
}

func findTask(t *testing.T, svc *testutil.FakeService, id string) (service.Task, bool) {
	t.Helper()
	for _, task := range svc.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return service.Task{}, false
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, newEnv(t, nil, false))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "agenda 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, newEnv(t, nil, false))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"Usage:", "today", "w3"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestListCommand_Today(t *testing.T) {
	svc := seededService()
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newEnv(t, svc, true))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "------------\n" +
		"Today  Mon, Jan 1  [all]\n" +
		"------------\n" +
		"   1  [ ] A  Mon, Jan 1\n" +
		"   2  [x] B  Mon, Jan 1\n"
	if stdout != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stdout)
	}

	until := svc.LastUntil()
	if until.Day() != 1 || until.Hour() != 23 || until.Minute() != 59 {
		t.Errorf("expected bound at the end of today, got %v", until)
	}
}

func TestListCommand_WindowFlag(t *testing.T) {
	svc := seededService()
	stdout, _, code := runCommand(t, &commands.ListCmd{}, newEnv(t, svc, true), "--window", "week")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Week  Mon, Jan 1") || !strings.Contains(stdout, "   3  [ ] C  Thu, Jan 4") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, _, code := runCommand(t, &commands.ListCmd{}, newEnv(t, svc, true))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasSuffix(stdout, "no tasks found\n") {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	env := newEnv(t, testutil.NewFakeService(), true)
	env.Config.Quiet = true
	stdout, _, _ := runCommand(t, &commands.ListCmd{}, env)

	if strings.Contains(stdout, "no tasks found") {
		t.Errorf("expected no message in quiet mode, got %q", stdout)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, newEnv(t, seededService(), true), "extra")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_BackendErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "unauthorized",
			err:      service.ErrUnauthorized,
			wantCode: exitcode.AuthError,
			wantErr:  "error: auth error: " + service.ErrUnauthorized.Error() + "\n",
		},
		{
			name:     "no credential",
			err:      session.ErrNoCredential,
			wantCode: exitcode.AuthError,
			wantErr:  "error: not logged in (run: agenda login)\n",
		},
		{
			name:     "server",
			err:      errors.New("boom"),
			wantCode: exitcode.BackendError,
			wantErr:  "error: backend error: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seededService()
			svc.ListTasksErr = tt.err
			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newEnv(t, svc, true))

			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
		})
	}
}

func TestFilterCommand(t *testing.T) {
	svc := seededService()
	env := newEnv(t, svc, true)

	stdout, _, code := runCommand(t, &commands.FilterCmd{}, env)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "[pending]") || strings.Contains(stdout, "B") {
		t.Errorf("expected pending-only list, got:\n%s", stdout)
	}

	// The preference is shared by later invocations.
	stdout, _, _ = runCommand(t, &commands.ListCmd{}, env, "--window", "month")
	if !strings.Contains(stdout, "Month  Mon, Jan 1  [pending]") {
		t.Errorf("expected persisted filter, got:\n%s", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.FilterCmd{}, env)
	if !strings.Contains(stdout, "[all]") {
		t.Errorf("expected filter toggled back, got:\n%s", stdout)
	}
}

func TestAddCommand(t *testing.T) {
	svc := seededService()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, newEnv(t, svc, true), "--date", "2024-01-03", "Write", "report")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	tasks := svc.Tasks()
	created := tasks[len(tasks)-1]
	if created.Desc != "Write report" {
		t.Errorf("expected desc 'Write report', got %q", created.Desc)
	}
	want := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	if !created.EstimateAt.Equal(want) {
		t.Errorf("expected estimate %v, got %v", want, created.EstimateAt)
	}
	if svc.CallCount("ListTasks") != 2 {
		t.Errorf("expected a reload after create, got %d loads", svc.CallCount("ListTasks"))
	}
}

func TestAddCommand_DefaultsToNow(t *testing.T) {
	svc := testutil.NewFakeService()
	_, _, code := runCommand(t, &commands.AddCmd{}, newEnv(t, svc, true), "Call", "mom")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Tasks()[0].EstimateAt; !got.Equal(testNow) {
		t.Errorf("expected estimate now, got %v", got)
	}
}

func TestAddCommand_BlankDescription(t *testing.T) {
	svc := seededService()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, newEnv(t, svc, true), "  ")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid data: Description not provided!\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls())
	}
}

func TestAddCommand_InvalidDate(t *testing.T) {
	svc := seededService()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, newEnv(t, svc, true), "-d", "nope", "x")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid date: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls())
	}
}

func TestAddCommand_CreateFails(t *testing.T) {
	svc := seededService()
	svc.CreateTaskErr = errors.New("server exploded")
	_, stderr, code := runCommand(t, &commands.AddCmd{}, newEnv(t, svc, true), "x")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: server exploded\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand(t *testing.T) {
	svc := seededService()
	stdout, _, code := runCommand(t, &commands.DoneCmd{}, newEnv(t, svc, true), "1")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if task, _ := findTask(t, svc, "a"); task.Pending() {
		t.Error("expected task A completed")
	}
}

func TestDoneCommand_ReopensCompletedTask(t *testing.T) {
	svc := seededService()
	_, _, code := runCommand(t, &commands.DoneCmd{}, newEnv(t, svc, true), "2")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if task, _ := findTask(t, svc, "b"); !task.Pending() {
		t.Error("expected task B pending again")
	}
}

func TestDoneCommand_WindowRefs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"attached letter", []string{"w3"}},
		{"separate letter", []string{"w", "3"}},
		{"window flag", []string{"--window", "week", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seededService()
			_, stderr, code := runCommand(t, &commands.DoneCmd{}, newEnv(t, svc, true), tt.args...)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
			}
			if task, _ := findTask(t, svc, "c"); task.Pending() {
				t.Error("expected task C completed")
			}
		})
	}
}

func TestDoneCommand_RefErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing", nil, "error: task reference required\n"},
		{"out of range", []string{"9"}, "error: task number out of range: 9\n"},
		{"zero", []string{"0"}, "error: task number out of range: 0\n"},
		{"window twice", []string{"--window", "week", "t1"}, "error: cannot use both --window and window letter\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seededService()
			_, stderr, code := runCommand(t, &commands.DoneCmd{}, newEnv(t, svc, true), tt.args...)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, stderr)
			}
			if svc.CallCount("ToggleTask") != 0 {
				t.Error("expected no toggle request")
			}
		})
	}
}

func TestRmCommand(t *testing.T) {
	svc := seededService()
	stdout, _, code := runCommand(t, &commands.RmCmd{}, newEnv(t, svc, true), "2")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if _, ok := findTask(t, svc, "b"); ok {
		t.Error("expected task B deleted")
	}
	if len(svc.Tasks()) != 2 {
		t.Errorf("expected 2 tasks left, got %d", len(svc.Tasks()))
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	svc := seededService()
	svc.DeleteTaskErr = service.ErrNotFound
	_, stderr, code := runCommand(t, &commands.RmCmd{}, newEnv(t, svc, true), "1")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestSummaryCommand(t *testing.T) {
	svc := seededService()
	stdout, _, code := runCommand(t, &commands.SummaryCmd{}, newEnv(t, svc, true))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "Today     1 pending / 2  #B13B44\n" +
		"Tomorrow  1 pending / 2  #C9742E\n" +
		"Week      2 pending / 3  #15721E\n" +
		"Month     2 pending / 3  #1631BE\n"
	if stdout != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stdout)
	}
	if svc.CallCount("ListTasks") != 4 {
		t.Errorf("expected one load per window, got %d", svc.CallCount("ListTasks"))
	}
}
