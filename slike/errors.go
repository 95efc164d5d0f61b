package slike

import "fmt"

// InvalidInputError reports a publish request rejected by local
// validation. No network activity has happened when one is returned.
type InvalidInputError struct {
	// Param names the offending request field.
	Param string
	// Message is the full human-readable reason.
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// APIError reports a failure from, or while talking to, the Slike API:
// transport errors, unparseable bodies, HTTP error statuses and explicit
// JSON-RPC error fields all land here.
type APIError struct {
	// StatusCode is the HTTP status of the response, or zero when the
	// request never completed.
	StatusCode int
	// Message is the composed description, sufficient for diagnosis
	// without the raw response.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

/*
errorMessage renders a decoded JSON-RPC error field into one line.

The platform sends two shapes:

	"error": "something broke"
	"error": {"message": "something broke", "code": 400, "data": "detail"}

The object shape becomes "<message> (code: <code>)", with " - <data>"
appended when data is present. Anything else is stringified as-is.
*/
func errorMessage(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	message := any("Unknown JSON-RPC error")
	if m, ok := obj["message"]; ok && m != nil {
		message = m
	}
	code := any("N/A")
	if c, ok := obj["code"]; ok && c != nil {
		code = c
	}
	msg := fmt.Sprintf("%v (code: %v)", message, code)
	if data, ok := obj["data"]; ok && !valueIsEmpty(data) {
		msg += fmt.Sprintf(" - %v", data)
	}
	return msg
}

// valueIsEmpty reports whether a decoded JSON value counts as absent for
// error-field purposes: null, "", false, 0 and empty collections are all
// treated as "no error".
func valueIsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
