package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLoad              = errors.New("dataset load failed")
	ErrFieldMissing      = errors.New("required field missing")
	ErrUnrecognizedValue = errors.New("unrecognized value")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownStage      = errors.New("unknown stage")
	ErrTooFewStages      = errors.New("flow needs at least two stages")
	ErrEmptyNodeSet      = errors.New("node set is empty")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrDatasetNotLoaded  = errors.New("dataset not loaded")
	ErrNoSource          = errors.New("dataset has no source file")
	ErrCacheMiss         = errors.New("cache miss")
	ErrStoreDisabled     = errors.New("snapshot store disabled")
)

// LoadError is fatal: the dataset is unreachable or malformed and no
// pipeline run happens.
type LoadError struct {
	Source string
	Row    int // 0 when the problem is not tied to a data row
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s", e.Source)
	if e.Row > 0 {
		msg += fmt.Sprintf(" (row %d)", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLoad, e.Err}
	}
	return []error{ErrLoad}
}

// UnknownError reports a selector value (field, category, stage) outside
// the enumerable configuration.
type UnknownError struct {
	Kind  string
	Value string
	Err   error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s %q is not recognized", e.Kind, e.Value)
}

func (e *UnknownError) Unwrap() error { return e.Err }
