package models

import (
	"fmt"
	"time"
)

// Entry is a single row of a conversation transcript.
// Loading marks a transient placeholder shown while a remote call is pending;
// loading entries are never sent to the model.
type Entry struct {
	Message Message
	Loading bool
}

// NewLoadingEntry creates a placeholder assistant entry.
func NewLoadingEntry(text string) Entry {
	return Entry{Message: AssistantMessage{Content: text}, Loading: true}
}

// Record is the flat, serializable form of a transcript entry.
// It is what the session cache, the message archive and the HTTP API carry.
type Record struct {
	ConversationID string     `json:"conversationId,omitempty" bson:"conversationId,omitempty"`
	Sequence       int        `json:"sequence" bson:"sequence"`
	Role           Role       `json:"role" bson:"role"`
	Content        string     `json:"content" bson:"content"`
	ToolCalls      []ToolCall `json:"toolCalls,omitempty" bson:"toolCalls,omitempty"`
	ToolCallID     string     `json:"toolCallId,omitempty" bson:"toolCallId,omitempty"`
	Loading        bool       `json:"loading,omitempty" bson:"loading,omitempty"`
	CreatedAt      time.Time  `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// ToRecord flattens an entry.
func ToRecord(e Entry) Record {
	r := Record{
		Role:    e.Message.Role(),
		Content: e.Message.Text(),
		Loading: e.Loading,
	}
	switch m := e.Message.(type) {
	case AssistantMessage:
		if len(m.ToolCalls) > 0 {
			r.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
		}
	case ToolMessage:
		r.ToolCallID = m.ToolCallID
	}
	return r
}

// FromRecord rebuilds an entry from its flat form.
func FromRecord(r Record) (Entry, error) {
	var msg Message
	switch r.Role {
	case RoleSystem:
		msg = SystemMessage{Content: r.Content}
	case RoleUser:
		msg = UserMessage{Content: r.Content}
	case RoleAssistant:
		msg = AssistantMessage{Content: r.Content, ToolCalls: r.ToolCalls}
	case RoleTool:
		msg = ToolMessage{Content: r.Content, ToolCallID: r.ToolCallID}
	default:
		return Entry{}, fmt.Errorf("unknown message role: %q", r.Role)
	}
	return Entry{Message: msg, Loading: r.Loading}, nil
}

// ToRecords flattens a transcript, numbering entries from offset.
func ToRecords(entries []Entry, offset int) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = ToRecord(e)
		records[i].Sequence = offset + i
	}
	return records
}

// FromRecords rebuilds a transcript. It fails on the first unknown role.
func FromRecords(records []Record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := FromRecord(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
