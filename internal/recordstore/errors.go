package recordstore

import (
	"encoding/json"
	"errors"
	"net/http"
)

// RemoteQueryError is returned for every failed record store call. Message is
// the upstream text as received.
type RemoteQueryError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *RemoteQueryError) Error() string {
	if e.Message == "" {
		return e.Type
	}
	return e.Message
}

// IsNotFound reports whether err is a record store 404
func IsNotFound(err error) bool {
	var qerr *RemoteQueryError
	return errors.As(err, &qerr) && qerr.StatusCode == http.StatusNotFound
}

// parseRemoteError understands both error shapes the API answers with:
// {"error":"NOT_FOUND"} and {"error":{"type":"...","message":"..."}}.
func parseRemoteError(status int, body []byte) *RemoteQueryError {
	qerr := &RemoteQueryError{StatusCode: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		qerr.Message = http.StatusText(status)
		if len(body) > 0 {
			qerr.Message = string(body)
		}
		return qerr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		qerr.Type = code
		qerr.Message = code
		return qerr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		qerr.Type = detail.Type
		qerr.Message = detail.Message
		return qerr
	}

	qerr.Message = string(envelope.Error)
	return qerr
}
