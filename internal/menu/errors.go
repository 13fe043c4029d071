package menu

import "fmt"

// ResourceError reports a failure to acquire a host resource (font, metrics,
// theme, pointer capture or window). It is fatal to the Build or popup call
// that produced it.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func resourceErr(resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Resource: resource, Err: err}
}
