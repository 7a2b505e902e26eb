package types

import "fmt"

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// MessageSource indicates how a user message was captured
type MessageSource string

const (
	MessageSourceVoice MessageSource = "voice"
	MessageSourceText  MessageSource = "text"
)

// IsValid checks if the message source is valid
func (s MessageSource) IsValid() bool {
	switch s {
	case MessageSourceVoice, MessageSourceText:
		return true
	default:
		return false
	}
}

// String returns the string representation of the message source
func (s MessageSource) String() string {
	return string(s)
}

// ParseMessageSource parses a string into a MessageSource
func ParseMessageSource(s string) (MessageSource, error) {
	src := MessageSource(s)
	if !src.IsValid() {
		return "", fmt.Errorf("invalid message source: %s", s)
	}
	return src, nil
}
