package models

import "strings"

// User is the record shape persisted under the LU_USERS key. Field names
// match the JSON the original browser client wrote, so existing saved data
// stays readable.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         string      `json:"role,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	Experience   FlexInt     `json:"experience,omitempty"`
	Skills       FlexStrings `json:"skills,omitempty"`
	PasswordHash string      `json:"passwordHash,omitempty"`
	AvatarURL    string      `json:"avatarUrl,omitempty"`
	CreatedAt    string      `json:"createdAt,omitempty"`
	UpdatedAt    string      `json:"updatedAt,omitempty"`
}

// DisplayName returns the name, falling back to the email and then the id.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// EmailLower returns the trimmed, lowercased email used as the uniqueness key.
func (u *User) EmailLower() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// Matches reports whether the given identifier refers to this user, either by
// id or by email (case-insensitive).
func (u *User) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}
	if u.ID == identifier {
		return true
	}
	return u.EmailLower() == strings.ToLower(strings.TrimSpace(identifier))
}

// Initials returns up to two uppercase initials for avatar placeholders.
func (u *User) Initials() string {
	parts := strings.Fields(u.DisplayName())
	var b strings.Builder
	for i, p := range parts {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(p[:1]))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
