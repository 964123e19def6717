package transcode

import (
	"errors"
	"fmt"
)

var ErrUnknownFormat = errors.New("transcode: unknown format")

// DecodeError reports a payload the format's decoder could not read.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("transcode: decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
