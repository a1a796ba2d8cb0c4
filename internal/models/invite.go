package models

import "strings"

// Invite is the record shape persisted under INVITES_FOR_USER_<email> keys:
// an offer of membership in a specific group tied to a specific event.
type Invite struct {
	EventID   string `json:"eid"`
	GroupID   string `json:"gid"`
	EventName string `json:"eventName,omitempty"`
	GroupName string `json:"groupName,omitempty"`
	InvitedBy string `json:"invitedBy,omitempty"`
	Email     string `json:"email,omitempty"`
	Timestamp string `json:"ts,omitempty"`
}

// Is reports whether the invite targets the given (eid, gid) pair.
func (i *Invite) Is(eid, gid string) bool {
	return i.EventID == eid && i.GroupID == gid
}

// For reports whether the invite is addressed to the given email,
// case-insensitively.
func (i *Invite) For(email string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}
