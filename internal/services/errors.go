package services

import "fmt"

// Err is the kind of failure a chat request can end in.
type Err int

const (
	ErrInvalidPayload Err = iota + 1
	ErrMissingCredential
	ErrGenerationFailure
)

func (e Err) Error() string {
	switch e {
	case ErrInvalidPayload:
		return "invalid payload"
	case ErrMissingCredential:
		return "missing credential"
	case ErrGenerationFailure:
		return "failed to generate assistant response"
	}
	return fmt.Sprintf("error code %d", int(e))
}

// With wraps e with extra detail. Never pass provider output or secrets.
func (e Err) With(args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}
