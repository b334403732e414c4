package profile

// Profile is the signed-in user as the core API reports it on /user/me
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Role           string `json:"role,omitempty"`
}
