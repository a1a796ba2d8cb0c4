package database

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/linkedup/app/internal/models"
)

const (
	inviteKeyPrefix       = "INVITES_FOR_USER_"
	legacyInviteKeyPrefix = "INVITES_"
)

// inviteKeyFor lowercases the recipient so case-varied reads and writes hit
// the same array.
func inviteKeyFor(email string) string {
	return inviteKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// AddInviteForEmail appends an invite to the target's per-recipient store,
// stamping ts and the recipient email when absent.
func AddInviteForEmail(db *sql.DB, targetEmail string, inv models.Invite) error {
	target := strings.TrimSpace(targetEmail)
	if target == "" {
		return ErrUserNotFound
	}
	if inv.Timestamp == "" {
		inv.Timestamp = models.NowISO()
	}
	if inv.Email == "" {
		inv.Email = target
	}
	return updateInvites(db, inviteKeyFor(target), func(invites []models.Invite) ([]models.Invite, error) {
		return append(invites, inv), nil
	})
}

// InvitesForEmail returns all invites addressed to the given email
// (case-insensitive). An absent key yields an empty slice.
func InvitesForEmail(db *sql.DB, email string) ([]models.Invite, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	var invites []models.Invite
	_, err := GetJSON(db, inviteKeyFor(email), &invites)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// RemoveInviteForEmail drops every invite for (eid, gid) from the target's
// store, leaving invites for other groups untouched.
func RemoveInviteForEmail(db *sql.DB, email, eid, gid string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return updateInvites(db, inviteKeyFor(email), func(invites []models.Invite) ([]models.Invite, error) {
		kept := invites[:0]
		for _, inv := range invites {
			if !inv.Is(eid, gid) {
				kept = append(kept, inv)
			}
		}
		return kept, nil
	})
}

// InvitesForGroup scans every per-recipient store and returns the invites
// targeting the given (eid, gid), for the group members view.
func InvitesForGroup(db *sql.DB, eid, gid string) ([]models.Invite, error) {
	keys, err := KeysWithPrefix(db, inviteKeyPrefix)
	if err != nil {
		return nil, err
	}
	var out []models.Invite
	for _, key := range keys {
		var invites []models.Invite
		if _, err := GetJSON(db, key, &invites); err != nil {
			return nil, err
		}
		for _, inv := range invites {
			if inv.Is(eid, gid) {
				if inv.Email == "" {
					inv.Email = strings.TrimPrefix(key, inviteKeyPrefix)
				}
				out = append(out, inv)
			}
		}
	}
	return out, nil
}

func updateInvites(db *sql.DB, key string, mutate func([]models.Invite) ([]models.Invite, error)) error {
	return UpdateJSON(db, key, func(raw string) (string, error) {
		var invites []models.Invite
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &invites); err != nil {
				invites = nil
			}
		}
		next, err := mutate(invites)
		if err != nil {
			return "", err
		}
		if next == nil {
			next = []models.Invite{}
		}
		out, err := json.Marshal(next)
		return string(out), err
	})
}

// MigrateLegacyInvites folds the old per-group invite arrays
// (INVITES_<eid>_<gid>) into the per-recipient stores, de-duplicates by
// (email, eid, gid), and deletes the legacy keys. Runs once at startup;
// subsequent runs find nothing to do. Returns the number of invites moved.
func MigrateLegacyInvites(db *sql.DB) (int, error) {
	keys, err := KeysWithPrefix(db, legacyInviteKeyPrefix)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, key := range keys {
		if strings.HasPrefix(key, inviteKeyPrefix) {
			continue
		}
		eid, gid, ok := splitLegacyInviteKey(key)
		if !ok {
			continue
		}

		raw, _, err := GetKey(db, key)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return moved, err
		}

		for _, inv := range decodeLegacyInvites(raw, eid, gid) {
			if inv.Email == "" {
				continue
			}
			dup, err := hasInvite(db, inv.Email, eid, gid)
			if err != nil {
				return moved, err
			}
			if dup {
				continue
			}
			if err := AddInviteForEmail(db, inv.Email, inv); err != nil {
				return moved, err
			}
			moved++
		}

		if err := DeleteKey(db, key); err != nil {
			return moved, err
		}
	}
	return moved, nil
}

// splitLegacyInviteKey parses INVITES_<eid>_<gid>. Event ids never contain
// underscores ("local-7", "ev-new-…"), so the first separator is the split
// point.
func splitLegacyInviteKey(key string) (eid, gid string, ok bool) {
	rest := strings.TrimPrefix(key, legacyInviteKeyPrefix)
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// decodeLegacyInvites tolerates the legacy array's mixed entry types: full
// invite objects and bare email strings.
func decodeLegacyInvites(raw, eid, gid string) []models.Invite {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	var out []models.Invite
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			out = append(out, models.Invite{EventID: eid, GroupID: gid, Email: s})
			continue
		}
		var inv models.Invite
		if err := json.Unmarshal(entry, &inv); err == nil {
			if inv.EventID == "" {
				inv.EventID = eid
			}
			if inv.GroupID == "" {
				inv.GroupID = gid
			}
			out = append(out, inv)
		}
	}
	return out
}

func hasInvite(db *sql.DB, email, eid, gid string) (bool, error) {
	invites, err := InvitesForEmail(db, email)
	if err != nil {
		return false, err
	}
	for _, inv := range invites {
		if inv.Is(eid, gid) {
			return true, nil
		}
	}
	return false, nil
}
