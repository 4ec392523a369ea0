package models

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest is the body of POST /api/auth/login.
type SignInRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Device   DeviceInfo `json:"device,omitempty"`
}

// OAuthProfile is the subset of an identity provider profile used to find
// or create the local account.
type OAuthProfile struct {
	Provider LoginMethod
	Subject  string
	Email    string
	Name     string
}
