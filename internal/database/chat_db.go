package database

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/linkedup/app/internal/models"
)

func chatKey(eid, gid string) string {
	return "GROUP_CHAT_" + eid + "_" + gid
}

// MessagesForGroup returns the full message array for a group, in stored
// order. An absent key yields an empty slice.
func MessagesForGroup(db *sql.DB, eid, gid string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	_, err := GetJSON(db, chatKey(eid, gid), &msgs)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// AppendChatMessage appends one message, stamping ts when absent. Empty
// text is dropped silently, as the original send button did.
func AppendChatMessage(db *sql.DB, eid, gid string, msg models.ChatMessage) error {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		return nil
	}
	if msg.Timestamp == "" {
		msg.Timestamp = models.NowISO()
	}
	return UpdateJSON(db, chatKey(eid, gid), func(raw string) (string, error) {
		var msgs []models.ChatMessage
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
				msgs = nil
			}
		}
		out, err := json.Marshal(append(msgs, msg))
		return string(out), err
	})
}
