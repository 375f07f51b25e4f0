package server

// MessageType names a WebSocket message
type MessageType string

const (
	// Client to server
	MessageTypeNewGame    MessageType = "new_game"
	MessageTypeStartRound MessageType = "start_round"
	MessageTypeBet        MessageType = "bet"
	MessageTypeAction     MessageType = "action"
	MessageTypeHint       MessageType = "hint"
	MessageTypeState      MessageType = "state"

	// Server to client
	MessageTypeSession      MessageType = "session"
	MessageTypeGameStarted  MessageType = "game_started"
	MessageTypeNotification MessageType = "notification"
	MessageTypeHintResult   MessageType = "hint_result"
	MessageTypeTableState   MessageType = "table_state"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
