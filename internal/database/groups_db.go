package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/linkedup/app/internal/models"
)

const groupsKeyPrefix = "MY_GROUPS_"

// ErrGroupNotFound is returned when no group with the given id exists under
// the event.
var ErrGroupNotFound = errors.New("group not found")

func groupsKey(eid string) string {
	return groupsKeyPrefix + eid
}

// GroupsForEvent returns the groups stored under MY_GROUPS_<eid>. An absent
// key yields an empty slice.
func GroupsForEvent(db *sql.DB, eid string) ([]*models.Group, error) {
	var groups []*models.Group
	_, err := GetJSON(db, groupsKey(eid), &groups)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AllGroups scans the MY_GROUPS_ prefix and returns event id -> groups.
func AllGroups(db *sql.DB) (map[string][]*models.Group, error) {
	keys, err := KeysWithPrefix(db, groupsKeyPrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]*models.Group, len(keys))
	for _, key := range keys {
		eid := strings.TrimPrefix(key, groupsKeyPrefix)
		groups, err := GroupsForEvent(db, eid)
		if err != nil {
			return nil, err
		}
		out[eid] = groups
	}
	return out, nil
}

// GetGroup retrieves a single group by event and group id.
func GetGroup(db *sql.DB, eid, gid string) (*models.Group, error) {
	groups, err := GroupsForEvent(db, eid)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == gid {
			return g, nil
		}
	}
	return nil, ErrGroupNotFound
}

func updateGroups(db *sql.DB, eid string, mutate func([]*models.Group) ([]*models.Group, error)) error {
	return UpdateJSON(db, groupsKey(eid), func(raw string) (string, error) {
		var groups []*models.Group
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &groups); err != nil {
				groups = nil
			}
		}
		next, err := mutate(groups)
		if err != nil {
			return "", err
		}
		if next == nil {
			next = []*models.Group{}
		}
		out, err := json.Marshal(next)
		return string(out), err
	})
}

// CreateGroup appends a new group under the event. The creator is always the
// first member; extraMembers are de-duplicated against it and each other.
func CreateGroup(db *sql.DB, eid, name, creator string, extraMembers []string) (*models.Group, error) {
	members := []string{creator}
	seen := map[string]bool{creator: true}
	for _, m := range extraMembers {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		members = append(members, m)
	}

	g := &models.Group{
		ID:        "grp-" + uuid.NewString(),
		Name:      name,
		Members:   members,
		Creator:   creator,
		CreatedAt: models.NowISO(),
	}
	err := updateGroups(db, eid, func(groups []*models.Group) ([]*models.Group, error) {
		return append(groups, g), nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGroup removes the group record entirely.
func DeleteGroup(db *sql.DB, eid, gid string) error {
	return updateGroups(db, eid, func(groups []*models.Group) ([]*models.Group, error) {
		kept := groups[:0]
		found := false
		for _, g := range groups {
			if g.ID == gid {
				found = true
				continue
			}
			kept = append(kept, g)
		}
		if !found {
			return nil, ErrGroupNotFound
		}
		return kept, nil
	})
}

// JoinGroup adds the user to the member list. Already a member is a no-op.
func JoinGroup(db *sql.DB, eid, gid, uid string) error {
	return updateGroups(db, eid, func(groups []*models.Group) ([]*models.Group, error) {
		for _, g := range groups {
			if g.ID == gid {
				if !g.HasMember(uid) {
					g.Members = append(g.Members, uid)
				}
				return groups, nil
			}
		}
		return nil, ErrGroupNotFound
	})
}

// LeaveGroup removes the user from the member list. A group whose member
// list empties is pruned from the event's array entirely.
func LeaveGroup(db *sql.DB, eid, gid, uid string) error {
	return updateGroups(db, eid, func(groups []*models.Group) ([]*models.Group, error) {
		found := false
		kept := groups[:0]
		for _, g := range groups {
			if g.ID == gid {
				found = true
				members := g.Members[:0]
				for _, m := range g.Members {
					if m != uid {
						members = append(members, m)
					}
				}
				g.Members = members
				if len(g.Members) == 0 {
					continue
				}
			}
			kept = append(kept, g)
		}
		if !found {
			return nil, ErrGroupNotFound
		}
		return kept, nil
	})
}
