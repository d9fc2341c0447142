package quranapi

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindTransport: no response was received.
	KindTransport ErrorKind = iota + 1
	// KindStatus: the backend answered with a non-2xx status.
	KindStatus
	// KindMalformed: a 2xx response whose body does not match its schema.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgConnectivity = "خطأ في الشبكة أو فشل الاتصال بالخادم."
	MsgUnknown      = "خطأ غير معروف"
	MsgMalformed    = "استجابة غير صالحة من الخادم."
)

// Error is returned by every Client method. Message is always readable
// by an end user; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody covers the error payloads the backend produces: a string
// detail, a list of validation problems, or an {error} object.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type validationProblem struct {
	Msg string `json:"msg"`
}

// detailMessage derives the user-facing message of a non-2xx body.
func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return MsgUnknown
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var problems []validationProblem
		if err := json.Unmarshal(eb.Detail, &problems); err == nil {
			msgs := make([]string, 0, len(problems))
			for _, p := range problems {
				if p.Msg != "" {
					msgs = append(msgs, p.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if strings.TrimSpace(eb.Error) != "" {
		return eb.Error
	}
	return MsgUnknown
}
