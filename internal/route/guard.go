// Package route gates access to views based on session state. The guard is
// a pure decision function; acting on a denial (sending the user to login)
// belongs to the command layer.
package route

import "github.com/expensetrack/etrack/internal/model"

// View names a navigable surface of the client.
type View string

// The client's views.
const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewAdd       View = "add"
	ViewInsights  View = "insights"
	ViewReports   View = "reports"
	ViewAdmin     View = "admin"
	ViewProfile   View = "profile"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Redirect View
	Allowed  bool
}

// public views need no session at all.
var public = map[View]bool{
	ViewLogin:    true,
	ViewRegister: true,
}

// adminOnly views additionally require the server-issued admin role.
var adminOnly = map[View]bool{
	ViewAdmin: true,
}

// Check decides whether the session may reach the view. Token presence is
// the whole authentication test: the guard does not inspect token structure
// or expiry, so a stale token passes here and is caught by the server's 401
// on the first call. Admin views require the role the server issued at
// login; nothing client-side infers it.
func Check(view View, sess model.Session) Decision {
	if public[view] {
		return Decision{Allowed: true}
	}
	if !sess.Authenticated() {
		return Decision{Allowed: false, Redirect: ViewLogin}
	}
	if adminOnly[view] && !sess.IsAdmin() {
		return Decision{Allowed: false, Redirect: ViewDashboard}
	}
	return Decision{Allowed: true}
}
