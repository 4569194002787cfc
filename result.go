package authflow

// Result is the uniform envelope returned by every transport call and every
// Manager operation: an explicit success flag, an optional payload, and an
// optional human readable message. Failure results never carry a payload.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// Ok builds a successful result carrying data.
func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: &data}
}

// Fail builds a failed result with a message and no payload.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// FailErr builds a failed result from an error, falling back to a generic
// message when the error carries none.
func FailErr[T any](err error, fallback string) Result[T] {
	if err == nil || err.Error() == "" {
		return Fail[T](fallback)
	}
	return Fail[T](err.Error())
}

// MessageOr returns the result message, or def when the message is empty.
func (r Result[T]) MessageOr(def string) string {
	if r.Message != "" {
		return r.Message
	}
	return def
}
