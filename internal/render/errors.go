package render

import "fmt"

// OutputWriteError reports that the chart image could not be written.
type OutputWriteError struct {
	Err  error
	Path string
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write chart to %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}
