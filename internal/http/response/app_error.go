package response

import "github.com/gin-gonic/gin"

// AppError is an error reply. Message goes into the envelope; Err is only logged.
// Key is the catalogue key Message was rendered from, empty for literal messages.
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal reports a server side failure. Anything below CodeInternal is the
// caller's doing: a bad RUT, a blocked date, a guard at the wrong plant.
func (e *AppError) Internal() bool {
	return e.Code >= CodeInternal
}

// Write sends the envelope.
func (e *AppError) Write(c *gin.Context) {
	Error(c, e.Code, e.Message)
}

// WrapError builds an AppError with a literal message.
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WrapKeyedError builds an AppError whose message was rendered from key.
func WrapKeyedError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
