package model

// Session is the client-held proof of authentication: an opaque bearer
// token plus the identity and role the server issued at login. The client
// never inspects the token; presence alone marks the session authenticated.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the server issued this session the admin role.
// Role comes from the login response, never from inspecting the username.
func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}
