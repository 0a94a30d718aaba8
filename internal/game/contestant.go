package game

// Contestant is one registered player. Contestants are addressed by their
// positional handle, assigned at registration and never reused or
// reordered; disconnecting only flips Connected.
type Contestant struct {
	// Name is set by the moderator and is the only name that should be
	// shown during the game. Empty means fall back to NameHint.
	Name string `json:"name,omitempty"`
	// NameHint comes from the connecting client, like a browser
	// user-agent or a controller port number.
	NameHint string `json:"name_hint"`
	Points   Points `json:"points"`
	// Indicate marks the contestant on screens and buzzer lights,
	// either because they buzzed in or for roll-call.
	Indicate  bool `json:"indicate"`
	Connected bool `json:"connected"`
}

// DisplayName is the name to render for this contestant.
func (c Contestant) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.NameHint
}
