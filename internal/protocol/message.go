package protocol

import "encoding/json"

// MessageKind classifies an inbound message.
type MessageKind string

const (
	KindEvents  MessageKind = "events"
	KindData    MessageKind = "data"
	KindLose    MessageKind = "lose"
	KindWin     MessageKind = "win"
	KindUnknown MessageKind = "unknown"
)

// Terminal message texts sent by the server.
const (
	messageWin  = "Win"
	messageLose = "Lose"
)

// DataSet is the paired series delivered in a data response. The two
// series are expected to have equal length.
type DataSet struct {
	Set1 []float64 `json:"set1"`
	Set2 []float64 `json:"set2"`
}

// Inbound is the superset of all server message shapes. Which fields are
// populated determines the kind of message.
type Inbound struct {
	MinDiv  float64                    `json:"minDiv"`
	MaxDiv  float64                    `json:"maxDiv"`
	Events  map[string]json.RawMessage `json:"events"`
	ReqID   string                     `json:"_reqId"`
	Data    *DataSet                   `json:"data"`
	Message string                     `json:"message"`
}

// Parse decodes one inbound text frame.
func Parse(frame []byte) (*Inbound, error) {
	var m Inbound
	if err := json.Unmarshal(frame, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Kind classifies the message by field presence. A message satisfying
// more than one shape takes the first match; the order is part of the
// protocol, do not reorder.
func (m *Inbound) Kind() MessageKind {
	switch {
	case m.Events != nil:
		return KindEvents
	case m.Data != nil:
		return KindData
	case m.Message == messageLose:
		return KindLose
	case m.Message == messageWin:
		return KindWin
	default:
		return KindUnknown
	}
}
