package models

// Group is the record shape persisted under MY_GROUPS_<eventId> keys.
// Members holds user ids (historically sometimes emails; lookups tolerate
// both).
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	Creator   string   `json:"creator,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// CreatorID returns the recorded creator, falling back to the first member
// for records written before the creator field existed.
func (g *Group) CreatorID() string {
	if g.Creator != "" {
		return g.Creator
	}
	if len(g.Members) > 0 {
		return g.Members[0]
	}
	return ""
}

// HasMember reports whether the given user id is in the member list.
func (g *Group) HasMember(uid string) bool {
	for _, m := range g.Members {
		if m == uid {
			return true
		}
	}
	return false
}
