package route

import (
	"testing"

	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		view         View
		sess         model.Session
		wantAllowed  bool
		wantRedirect View
	}{
		{
			name:         "protected view without token redirects to login",
			view:         ViewDashboard,
			sess:         model.Session{},
			wantAllowed:  false,
			wantRedirect: ViewLogin,
		},
		{
			name:        "protected view with token allowed",
			view:        ViewDashboard,
			sess:        model.Session{Token: "tok", Username: "alice"},
			wantAllowed: true,
		},
		{
			// Presence is the whole test: the guard does not judge
			// token validity, the server's 401 does.
			name:        "any non-empty token passes regardless of content",
			view:        ViewReports,
			sess:        model.Session{Token: "garbage-not-a-jwt"},
			wantAllowed: true,
		},
		{
			name:        "login view open without session",
			view:        ViewLogin,
			sess:        model.Session{},
			wantAllowed: true,
		},
		{
			name:        "register view open without session",
			view:        ViewRegister,
			sess:        model.Session{},
			wantAllowed: true,
		},
		{
			name:         "admin view denied to plain user",
			view:         ViewAdmin,
			sess:         model.Session{Token: "tok", Username: "alice", Role: "user"},
			wantAllowed:  false,
			wantRedirect: ViewDashboard,
		},
		{
			name:        "admin view allowed with server-issued admin role",
			view:        ViewAdmin,
			sess:        model.Session{Token: "tok", Username: "carol", Role: "admin"},
			wantAllowed: true,
		},
		{
			// The role claim decides, never the username text.
			name:         "username admin without the role stays denied",
			view:         ViewAdmin,
			sess:         model.Session{Token: "tok", Username: "admin", Role: "user"},
			wantAllowed:  false,
			wantRedirect: ViewDashboard,
		},
		{
			name:         "admin view without session redirects to login",
			view:         ViewAdmin,
			sess:         model.Session{},
			wantAllowed:  false,
			wantRedirect: ViewLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.view, tt.sess)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, tt.wantRedirect, got.Redirect)
		})
	}
}
