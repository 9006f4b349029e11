package models

// User is a hunt participant. CurrentStep is the rank (not id) of the step
// the user must currently solve; one past the last rank means the hunt is
// finished. The password hash never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	CurrentStep  int32  `json:"current_step"`
}
