package http

// State is a stage of the single request-response exchange a connection carries.
type State uint8

const (
	AwaitRequestLine State = iota
	AwaitHeaders
	AwaitBody
	Ready
	Dispatched
	ResponseWritten
	BadRequest
	ServerError
	Closed
)

var stateNames = [...]string{
	AwaitRequestLine: "AwaitRequestLine",
	AwaitHeaders:     "AwaitHeaders",
	AwaitBody:        "AwaitBody",
	Ready:            "Ready",
	Dispatched:       "Dispatched",
	ResponseWritten:  "ResponseWritten",
	BadRequest:       "BadRequest",
	ServerError:      "ServerError",
	Closed:           "Closed",
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "Unknown"
	}

	return stateNames[s]
}

// Terminal reports whether no transition from the state is possible.
func (s State) Terminal() bool {
	return s == Closed
}
