package realtime

import (
	"encoding/json"
	"time"
)

// Table names of the two record streams the panel subscribes to.
const (
	TableMessages      = "mensagens"
	TableConversations = "conversas"
)

// Change operations as reported by the feed.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChangeEvent is one row-level change from the hosted backend's feed.
type ChangeEvent struct {
	Table     string
	Op        string
	Record    json.RawMessage
	OldRecord json.RawMessage
}

// MessageRecord is the mensagens row shape carried in a change event.
type MessageRecord struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"id_conversa"`
	Content        string    `json:"conteudo"`
	CreatedAt      time.Time `json:"criada_em"`
	Origin         string    `json:"origem"`
	UserID         string    `json:"id_usuario"`
}

// DecodeMessage decodes the event's new row as a mensagens record.
func (e ChangeEvent) DecodeMessage() (MessageRecord, error) {
	var rec MessageRecord
	err := json.Unmarshal(e.Record, &rec)
	return rec, err
}

// envelope is the phoenix-channel frame the feed speaks.
type envelope struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Ref     string          `json:"ref,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// changePayload is the payload of a postgres_changes frame.
type changePayload struct {
	Data struct {
		Table     string          `json:"table"`
		Type      string          `json:"type"`
		Record    json.RawMessage `json:"record"`
		OldRecord json.RawMessage `json:"old_record"`
	} `json:"data"`
}

// parseChange extracts a ChangeEvent from a raw frame. The second return is
// false for frames that are not row changes (replies, heartbeats, system).
func parseChange(raw []byte) (ChangeEvent, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ChangeEvent{}, false
	}
	if env.Event != "postgres_changes" {
		return ChangeEvent{}, false
	}

	var payload changePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return ChangeEvent{}, false
	}
	if payload.Data.Table == "" || payload.Data.Type == "" {
		return ChangeEvent{}, false
	}

	return ChangeEvent{
		Table:     payload.Data.Table,
		Op:        payload.Data.Type,
		Record:    payload.Data.Record,
		OldRecord: payload.Data.OldRecord,
	}, true
}
