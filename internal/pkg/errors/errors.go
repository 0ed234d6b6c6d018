package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooLarge     = errors.New("too large")

	ErrInvalidSerial           = errors.New("invalid serial")
	ErrSerialTooShort          = wrap(ErrInvalidSerial, "serial needs at least two markers")
	ErrSerialAdjacentDuplicate = wrap(ErrInvalidSerial, "adjacent markers must differ")
	ErrSerialForeignMarker     = wrap(ErrInvalidSerial, "marker not found")

	ErrMarkerInUse = wrap(ErrConflict, "marker is used by a serial")
)

type wrappedErr struct {
	parent error
	msg    string
}

func wrap(parent error, msg string) error {
	return &wrappedErr{parent: parent, msg: msg}
}

func (e *wrappedErr) Error() string {
	return e.msg
}

func (e *wrappedErr) Unwrap() error {
	return e.parent
}
