package models

// ChatMessage is the record shape persisted under GROUP_CHAT_<eid>_<gid>
// keys. Arrays are append-only; array order is the only ordering.
type ChatMessage struct {
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp string `json:"ts"`
}
