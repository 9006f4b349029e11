package dto

import "github.com/ecollinet/chasse-backend/internal/models"

// NewUser is the payload for user creation. The plaintext password is hashed
// before anything is persisted.
type NewUser struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateUser is the payload for user updates. An empty password keeps the
// stored hash untouched.
type UpdateUser struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	CurrentStep int32  `json:"current_step"`
}

// TokenResponse carries an admin JWT minted by the token-exchange endpoint.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// AdvanceResponse is the tagged outcome of an advance attempt. Type is the
// discriminant; Distance is set for WrongPlace, Step for Success.
type AdvanceResponse struct {
	Type     string       `json:"type"`
	Distance *float64     `json:"distance,omitempty"`
	Step     *models.Step `json:"step,omitempty"`
}
