// Package models contains domain models for the price chat service.
package models

// Role represents the role of a message sender.
type Role string

const (
	// RoleSystem is the persona message that opens every transcript.
	RoleSystem Role = "system"
	// RoleUser represents a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant represents a message produced by the model.
	RoleAssistant Role = "assistant"
	// RoleTool carries the output of a tool invocation back to the model.
	RoleTool Role = "tool"
)

// Message is one turn of a conversation. The concrete variants are
// SystemMessage, UserMessage, AssistantMessage and ToolMessage.
type Message interface {
	Role() Role
	Text() string

	sealed()
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id,omitempty" bson:"id,omitempty"`
	Name      string `json:"name" bson:"name"`
	Arguments string `json:"arguments" bson:"arguments"`
}

// SystemMessage establishes the assistant persona.
type SystemMessage struct {
	Content string
}

// UserMessage is a message submitted by the user.
type UserMessage struct {
	Content string
}

// AssistantMessage is a model reply. Content may be empty when the reply
// consists only of tool calls.
type AssistantMessage struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolMessage is the result of a tool call, correlated by ToolCallID.
type ToolMessage struct {
	Content    string
	ToolCallID string
}

func (SystemMessage) Role() Role    { return RoleSystem }
func (UserMessage) Role() Role      { return RoleUser }
func (AssistantMessage) Role() Role { return RoleAssistant }
func (ToolMessage) Role() Role      { return RoleTool }

func (m SystemMessage) Text() string    { return m.Content }
func (m UserMessage) Text() string      { return m.Content }
func (m AssistantMessage) Text() string { return m.Content }
func (m ToolMessage) Text() string      { return m.Content }

func (SystemMessage) sealed()    {}
func (UserMessage) sealed()      {}
func (AssistantMessage) sealed() {}
func (ToolMessage) sealed()      {}

// HasToolCalls reports whether the model asked for at least one tool call.
func (m AssistantMessage) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// WithoutToolCalls returns a copy of the message with its tool calls dropped.
func (m AssistantMessage) WithoutToolCalls() AssistantMessage {
	return AssistantMessage{Content: m.Content}
}
