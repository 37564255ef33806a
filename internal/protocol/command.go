// Package protocol defines the wire types exchanged with the divscout
// server: outbound commands and the inbound message superset. The server
// sends no explicit type discriminant; inbound classification is by field
// presence (see Inbound.Kind).
package protocol

// Command discriminant values.
const (
	CmdGetEvents = "getEvents"
	CmdGetData   = "getData"
	CmdConfirm   = "confirm"
)

// Labels identifying which of the paired series produced a match.
const (
	SetLabel1 = "set1"
	SetLabel2 = "set2"
)

// Command is a single outbound request. ReqID is stamped by the sender
// just before transmission, not by the builders; pointer fields keep the
// confirm-only values off the wire for the other two commands even when
// an index or ratio is zero.
type Command struct {
	Cmd     string   `json:"cmd"`
	EventID string   `json:"eventId,omitempty"`
	Set     string   `json:"set,omitempty"`
	N       *int     `json:"n,omitempty"`
	Div     *float64 `json:"div,omitempty"`
	ReqID   string   `json:"_reqId,omitempty"`
}

// GetEvents builds the poll command.
func GetEvents() Command {
	return Command{Cmd: CmdGetEvents}
}

// GetData builds the data-fetch command for one event. eventID must be
// non-empty.
func GetData(eventID string) Command {
	return Command{Cmd: CmdGetData, EventID: eventID}
}

// Confirm builds the match report for index n of the labeled series of an
// event, with the computed ratio.
func Confirm(eventID, set string, n int, div float64) Command {
	return Command{Cmd: CmdConfirm, EventID: eventID, Set: set, N: &n, Div: &div}
}
