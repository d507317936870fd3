package game

// Player identifies one remote participant. Identity is the opaque ID, not
// the display name; the ready flag only matters during the pre-round
// handshake.
type Player struct {
	ID    string
	Name  string
	Ready bool
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Same reports identity equality, by ID only.
func (p *Player) Same(other *Player) bool {
	return p != nil && other != nil && p.ID == other.ID
}
