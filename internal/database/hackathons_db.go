package database

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/linkedup/app/internal/models"
)

const (
	hacksKey       = "LU_LOCAL_HACKS"
	savedEventsKey = "MY_EVENTS"
)

// ErrHackathonNotFound is returned when no hackathon with the given id is
// stored.
var ErrHackathonNotFound = errors.New("hackathon not found")

// GetHackathons returns the stored hackathon list. An absent key yields an
// empty slice; corrupt JSON yields a *models.RecordError.
func GetHackathons(db *sql.DB) ([]*models.Hackathon, error) {
	var hacks []*models.Hackathon
	_, err := GetJSON(db, hacksKey, &hacks)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return hacks, nil
}

// SaveHackathons overwrites the whole list, as the regenerate action does.
func SaveHackathons(db *sql.DB, hacks []*models.Hackathon) error {
	return updateHackathons(db, func([]*models.Hackathon) ([]*models.Hackathon, error) {
		return hacks, nil
	})
}

// GetHackathonByID retrieves one hackathon record.
func GetHackathonByID(db *sql.DB, id string) (*models.Hackathon, error) {
	hacks, err := GetHackathons(db)
	if err != nil {
		return nil, err
	}
	for _, h := range hacks {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, ErrHackathonNotFound
}

// AddHackathon appends an ad-hoc event record.
func AddHackathon(db *sql.DB, h *models.Hackathon) error {
	return updateHackathons(db, func(hacks []*models.Hackathon) ([]*models.Hackathon, error) {
		return append(hacks, h), nil
	})
}

// DeleteHackathon removes a record by id and scrubs it from the saved-event
// list so the dashboard count stays honest.
func DeleteHackathon(db *sql.DB, id string) error {
	err := updateHackathons(db, func(hacks []*models.Hackathon) ([]*models.Hackathon, error) {
		kept := hacks[:0]
		found := false
		for _, h := range hacks {
			if h.ID == id {
				found = true
				continue
			}
			kept = append(kept, h)
		}
		if !found {
			return nil, ErrHackathonNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	return RemoveSavedEventID(db, id)
}

func updateHackathons(db *sql.DB, mutate func([]*models.Hackathon) ([]*models.Hackathon, error)) error {
	return UpdateJSON(db, hacksKey, func(raw string) (string, error) {
		var hacks []*models.Hackathon
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &hacks); err != nil {
				hacks = nil
			}
		}
		next, err := mutate(hacks)
		if err != nil {
			return "", err
		}
		if next == nil {
			next = []*models.Hackathon{}
		}
		out, err := json.Marshal(next)
		return string(out), err
	})
}

// SavedEventIDs returns the MY_EVENTS id list.
func SavedEventIDs(db *sql.DB) ([]string, error) {
	var ids []string
	_, err := GetJSON(db, savedEventsKey, &ids)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveEventID appends an event id to MY_EVENTS, once.
func SaveEventID(db *sql.DB, id string) error {
	return UpdateJSON(db, savedEventsKey, func(raw string) (string, error) {
		var ids []string
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				ids = nil
			}
		}
		for _, existing := range ids {
			if existing == id {
				out, err := json.Marshal(ids)
				return string(out), err
			}
		}
		out, err := json.Marshal(append(ids, id))
		return string(out), err
	})
}

// RemoveSavedEventID drops an event id from MY_EVENTS. Absent ids and an
// absent key are both fine.
func RemoveSavedEventID(db *sql.DB, id string) error {
	return UpdateJSON(db, savedEventsKey, func(raw string) (string, error) {
		var ids []string
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				ids = nil
			}
		}
		kept := ids[:0]
		for _, existing := range ids {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		if kept == nil {
			kept = []string{}
		}
		out, err := json.Marshal(kept)
		return string(out), err
	})
}
