package game

type Speaker string

const (
	SpeakerHuman     Speaker = "human"
	SpeakerAssistant Speaker = "assistant"
)

type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageSuccess MessageType = "success"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// Message is one transcript turn. Immutable once appended.
type Message struct {
	Speaker Speaker     `json:"speaker"`
	Content string      `json:"content"`
	Type    MessageType `json:"type"`
}

func HumanMessage(content string) Message {
	return Message{Speaker: SpeakerHuman, Content: content, Type: MessageInfo}
}

func AssistantMessage(content string, typ MessageType) Message {
	return Message{Speaker: SpeakerAssistant, Content: content, Type: typ}
}
