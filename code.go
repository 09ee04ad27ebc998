package mp3probe

import (
	"errors"
)

// Code classifies an analysis outcome into a small closed set, the way
// embedded detector ABIs report results. CodeOf maps any error from
// this package onto one.
type Code int

const (
	CodeOK Code = iota
	CodeInvalidPointer
	CodeInvalidArgument
	CodeOutOfMemory
	CodeIO
	CodeInvalidFormat
	CodeNotImplemented
)

// String returns the conventional short description.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidPointer:
		return "Invalid pointer"
	case CodeInvalidArgument:
		return "Invalid argument"
	case CodeOutOfMemory:
		return "Out of memory"
	case CodeIO:
		return "I/O error"
	case CodeInvalidFormat:
		return "Invalid MP3 format"
	case CodeNotImplemented:
		return "Not implemented"
	default:
		return "Unknown error"
	}
}

// CodeOf maps an error returned by this package onto its Code. A nil
// error is CodeOK. Errors from outside the package, such as a failed
// os.Open or a canceled context, report CodeIO.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}

	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		if contractErr.Pointer {
			return CodeInvalidPointer
		}
		return CodeInvalidArgument
	}

	var resourceErr *ResourceError
	if errors.As(err, &resourceErr) {
		return CodeOutOfMemory
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return CodeIO
	}

	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return CodeInvalidFormat
	}

	var boundsErr *OutOfBoundsError
	if errors.As(err, &boundsErr) {
		return CodeInvalidFormat
	}

	return CodeIO
}
