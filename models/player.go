package models

// SlotAssignment binds a player to the slot (1-4) that drives the fixed pairings.
type SlotAssignment struct {
	Name string `json:"name"`
	Slot int    `json:"slot"`
}
