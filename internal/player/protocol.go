package player

import (
	"encoding/json"
	"fmt"
)

// request is one line of the mpv JSON IPC protocol.
type request struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

// response is mpv's reply to a request. Error is "success" on success.
type response struct {
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ipcMessage is the union of everything mpv writes on the socket:
// request replies carry Error, asynchronous events carry Event.
type ipcMessage struct {
	Error     string          `json:"error,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Observed property IDs, chosen by us when registering observers.
const (
	observePosition = 1
	observeDuration = 2
	observePause    = 3
)

// Event is a discrete playback notification from the engine.
type Event interface {
	isEvent()
}

// PositionEvent reports the current playback position.
type PositionEvent struct {
	Seconds float64
}

// DurationEvent reports the media duration once known.
type DurationEvent struct {
	Seconds float64
}

// PauseEvent reports a pause state change.
type PauseEvent struct {
	Paused bool
}

// FileLoadedEvent fires when a file has been loaded and is playable.
type FileLoadedEvent struct{}

// EndFileEvent fires when playback of a file ends. Reason "error" means
// the media could not be played.
type EndFileEvent struct {
	Reason string
}

func (PositionEvent) isEvent()   {}
func (DurationEvent) isEvent()   {}
func (PauseEvent) isEvent()      {}
func (FileLoadedEvent) isEvent() {}
func (EndFileEvent) isEvent()    {}

// encodeRequest marshals a command line for the socket, newline-terminated.
func encodeRequest(id int, command ...any) ([]byte, error) {
	b, err := json.Marshal(request{Command: command, RequestID: id})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// decodeMessage parses one line from the socket.
func decodeMessage(line []byte) (ipcMessage, error) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return ipcMessage{}, fmt.Errorf("parse ipc message: %w", err)
	}
	return msg, nil
}

// eventFromMessage translates a raw IPC event into a typed Event.
// Returns nil for events we do not care about.
func eventFromMessage(msg ipcMessage) Event {
	switch msg.Event {
	case "property-change":
		switch msg.ID {
		case observePosition:
			if secs, ok := decodeFloat(msg.Data); ok {
				return PositionEvent{Seconds: secs}
			}
		case observeDuration:
			if secs, ok := decodeFloat(msg.Data); ok {
				return DurationEvent{Seconds: secs}
			}
		case observePause:
			if len(msg.Data) == 0 || string(msg.Data) == "null" {
				return nil
			}
			var paused bool
			if json.Unmarshal(msg.Data, &paused) == nil {
				return PauseEvent{Paused: paused}
			}
		}
	case "file-loaded":
		return FileLoadedEvent{}
	case "end-file":
		return EndFileEvent{Reason: msg.Reason}
	}
	return nil
}

func decodeFloat(data json.RawMessage) (float64, bool) {
	// mpv reports null when the property has no value yet.
	if len(data) == 0 || string(data) == "null" {
		return 0, false
	}
	var v float64
	if json.Unmarshal(data, &v) != nil {
		return 0, false
	}
	return v, true
}
