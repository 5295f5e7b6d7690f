package util

import (
	"fmt"
	"net/http"
)

// Error is a rich error for failures involving an external service;
// LogMsg goes to the logs, SimpleMsg is safe to surface to a caller
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Log records the full detail of the error and returns a simplified
// error for the caller
func (e Error) Log(context LogContext, prefix string) error {
	message := e.LogMsg
	if message == "" {
		message = e.SimpleMsg
	}
	if prefix != "" {
		message = prefix + ": " + message
	}
	if e.URL != "" {
		message += fmt.Sprintf("; URL: %s", e.URL)
	}
	if e.HTTPStatus != 0 {
		message += fmt.Sprintf("; status: %d", e.HTTPStatus)
	}
	if e.Response != "" {
		message += "; response: " + e.Response
	}
	writeLog(context, "ERROR", message)
	if e.SimpleMsg != "" {
		return fmt.Errorf("%s", e.SimpleMsg)
	}
	return fmt.Errorf("%s", e.LogMsg)
}

// HTTPErr is an error that carries an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

func (e HTTPErr) Error() string {
	return e.Message
}

// HTTPError writes an error message and status to an HTTP response,
// logging it in the process
func HTTPError(request *http.Request, writer http.ResponseWriter, context LogContext, message string, status int) {
	writeLog(context, "ERROR", fmt.Sprintf("%s %s -> %d: %s", request.Method, request.URL.Path, status, message))
	http.Error(writer, message, status)
}
