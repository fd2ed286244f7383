package tui

// Sender of a transcript entry
const (
	FromUser      = "user"
	FromAssistant = "assistant"
	FromError     = "error"
)

// Entry is one line of the chat transcript
type Entry struct {
	From string
	Text string
}

type replyMsg struct {
	text string
}

type errMsg struct {
	err error
}
