package dto

// Result is the uniform envelope returned by use cases. Error is a
// user-facing message; internals are logged, never surfaced here.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Error: message}
}
