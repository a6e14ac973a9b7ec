package models

// Profile is the signed-in player's card. DMR is computed by the backend.
type Profile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	DMR            float64 `json:"dmr"`
	DMRProvisional bool    `json:"dmrProvisional"`
	MatchesPlayed  int     `json:"matchesPlayed"`
}
