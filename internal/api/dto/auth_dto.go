package dto

import "time"

// ChallengeRequest payload for requesting a session challenge.
type ChallengeRequest struct {
	Address string `json:"address"`
}

// ChallengeResponse returns the nonce to sign.
type ChallengeResponse struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`
}

// SessionRequest payload for opening a session with a signed challenge.
// PublicKey and Signature are hex encoded.
type SessionRequest struct {
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

// AuthResponse standard response for session endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
