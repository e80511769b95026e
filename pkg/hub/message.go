// Package hub fans out dashboard events to websocket subscribers over a
// channel-based broadcast loop.
package hub

// MessageType selects the websocket frame format.
type MessageType int

const (
	// JSONMessage carries a JSON-encoded event.
	JSONMessage MessageType = iota
	// BinaryMessage carries raw bytes, e.g. a preview frame.
	BinaryMessage
)

// Message is one payload to deliver to every subscriber.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw bytes.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
