package domain

// PlayerRole is a player's primary discipline.
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "BATSMAN"
	RoleBowler       PlayerRole = "BOWLER"
	RoleAllRounder   PlayerRole = "ALL_ROUNDER"
	RoleWicketKeeper PlayerRole = "WICKET_KEEPER"
)

// Player is the identity/metadata shape resolved via the store; the
// engine itself only ever handles player IDs.
type Player struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Role PlayerRole `json:"role"`
}

// Team is the identity/metadata shape for a side.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"playerIds"`
}
