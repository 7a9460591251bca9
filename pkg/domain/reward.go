package domain

import "encoding/json"

// Reward is a purchasable item from the store catalog.
type Reward struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// NormalizeCatalog decodes a reward catalog payload. The backend has been
// seen returning an object (or null) instead of a list; anything that is
// not a JSON array becomes an empty catalog rather than an error.
func NormalizeCatalog(data []byte) []Reward {
	var rewards []Reward
	if err := json.Unmarshal(data, &rewards); err != nil {
		return []Reward{}
	}
	if rewards == nil {
		return []Reward{}
	}
	return rewards
}
