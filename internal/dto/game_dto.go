package dto

// GameStateResponse is the snapshot the embedded game reads on load.
// Level unlocking is driven by completed days, not by streak.
type GameStateResponse struct {
	Token         string   `json:"token"`
	CompletedDays int      `json:"completed_days"`
	Streak        int      `json:"streak"`
	Coins         int      `json:"coins"`
	Inventory     []string `json:"inventory"`
}

// CoinUpdateRequest is the reward top-up callback from the game. Any
// non-negative balance is accepted; monotonicity is not enforced.
type CoinUpdateRequest struct {
	Coins *int `json:"coins" validate:"required,min=0"`
}

// InventoryAddRequest unlocks one cosmetic or weapon item.
type InventoryAddRequest struct {
	Item string `json:"item" validate:"required,max=64"`
}
