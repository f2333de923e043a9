// Package menu is the navigation drawer: user identity and logout.
package menu

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"

	"agenda/internal/nav"
	"agenda/internal/session"
	"agenda/internal/store"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// Menu is the header shown at the top of the drawer.
type Menu struct {
	Name   string
	Email  string
	Avatar string
}

// New builds the drawer header for cred.
func New(cred session.Credential) Menu {
	return Menu{
		Name:   cred.Name,
		Email:  cred.Email,
		Avatar: AvatarURL(cred.Email),
	}
}

// AvatarURL returns the secure gravatar URL for email.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBase + hex.EncodeToString(sum[:])
}

// Logout clears the outbound credential, removes the persisted one and
// resets navigation to a single Auth root.
func Logout(st *store.Store, sess *session.Session, r nav.Resetter, log *slog.Logger) {
	session.Logout(st, sess, log)
	r.Reset(nav.RouteAuth)
}
