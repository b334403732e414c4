package session

// Session is the authenticated identity held for one browsing session:
// an opaque bearer credential issued by the core API, plus the user
// object when the login flow returned one (SSO logins carry no user)
type Session struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Role           string `json:"role,omitempty"`
}

