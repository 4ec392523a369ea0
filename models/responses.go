package models

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	// Code is the machine-readable reason.
	Code string `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
}

// ImagesResponse lists images of the caller.
type ImagesResponse struct {
	Images []Image `json:"images"`
	Length int     `json:"length"`
}

// LoginsResponse lists login records of the caller, newest first.
type LoginsResponse struct {
	Logins []LoginRecord `json:"logins"`
	Length int           `json:"length"`
}

// VersionResponse reports the running build.
type VersionResponse struct {
	Version string `json:"version"`
}
