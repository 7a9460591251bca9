package domain

// Credentials is a username/password pair entered on the login form.
// Held only in form state until a signup/login attempt; never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete returns true when both fields are non-empty.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Session is the authenticated identity for the current visit.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
