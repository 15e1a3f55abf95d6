package domain

import (
	"encoding/json"
	"errors"
)

// SearchKey marks an Error re-emitted because the query or filter changed,
// as opposed to a fresh fetch failure.
const SearchKey = "search"

const defaultFailureMessage = "Something went wrong"

// ResponseState is exactly one of Loading, Success or Error.
type ResponseState interface {
	isResponseState()
}

// Loading means no data has been received since startup or the last reload.
type Loading struct{}

// Success holds the derived view after the last fetch succeeded.
type Success struct {
	Data []Ticker
}

// Error reports a failed fetch. Data is the last derived view and is only
// meaningful when HasData is set; a failure before any success has no data.
type Error struct {
	Key     string
	Data    []Ticker
	HasData bool
	Message string
}

func (Loading) isResponseState() {}
func (Success) isResponseState() {}
func (Error) isResponseState()   {}

// StateData returns the view carried by s, if any.
func StateData(s ResponseState) ([]Ticker, bool) {
	switch v := s.(type) {
	case Success:
		return v.Data, true
	case Error:
		return v.Data, v.HasData
	}
	return nil, false
}

// StateName is the lowercase tag used in logs and JSON.
func StateName(s ResponseState) string {
	switch s.(type) {
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "loading"
}

// FailureMessage extracts a displayable message from a fetch error.
func FailureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return defaultFailureMessage
	}
	return err.Error()
}

var (
	ErrEmptyPayload     = errors.New("empty ticker payload")
	ErrMalformedPayload = errors.New("malformed ticker payload")
)

type stateJSON struct {
	State   string   `json:"state"`
	Key     string   `json:"key,omitempty"`
	Data    []Ticker `json:"data"`
	Message string   `json:"message,omitempty"`
}

// MarshalState encodes s with an explicit "state" tag. Data is null when absent
// and [] when present but empty.
func MarshalState(s ResponseState) ([]byte, error) {
	out := stateJSON{State: StateName(s)}
	if data, ok := StateData(s); ok {
		out.Data = data
		if out.Data == nil {
			out.Data = []Ticker{}
		}
	}
	if e, ok := s.(Error); ok {
		out.Key = e.Key
		out.Message = e.Message
	}
	return json.Marshal(out)
}
