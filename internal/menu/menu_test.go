package menu_test

import (
	"io"
	"log/slog"
	"testing"

	"agenda/internal/menu"
	"agenda/internal/nav"
	"agenda/internal/session"
	"agenda/internal/store"
)

func TestAvatarURL(t *testing.T) {
	// md5("myemailaddress@example.com")
	want := "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346"
	if got := menu.AvatarURL("  MyEmailAddress@example.com "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNew(t *testing.T) {
	m := menu.New(session.Credential{Token: "t", Name: "Ana", Email: "ana@example.com"})
	if m.Name != "Ana" || m.Email != "ana@example.com" {
		t.Errorf("unexpected identity: %+v", m)
	}
	if m.Avatar != menu.AvatarURL("ana@example.com") {
		t.Errorf("unexpected avatar %q", m.Avatar)
	}
}

func TestLogout(t *testing.T) {
	st := store.New(t.TempDir())
	sess := session.New()
	if err := session.Login(st, sess, session.Credential{Token: "t"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	stack := nav.NewStack(nav.RouteAuth)
	stack.Navigate(nav.RouteHome, nil)
	stack.Navigate(nav.RouteHome, nil)

	menu.Logout(st, sess, stack, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, ok := sess.Credential(); ok {
		t.Error("expected outbound credential cleared")
	}
	if st.HasItem(store.UserDataKey) {
		t.Error("expected persisted credential removed")
	}
	if stack.Depth() != 1 {
		t.Errorf("expected navigation depth 1, got %d", stack.Depth())
	}
	if stack.Root().Route != nav.RouteAuth {
		t.Errorf("expected root Auth, got %s", stack.Root().Route)
	}
}
