package adapter

import "fmt"

// moduleMismatchError signals an artifact saved by a different adapter
// module, preventing silent misinterpretation of incompatible artifacts.
type moduleMismatchError struct {
	tag   string
	saved string
	want  string
}

func (e moduleMismatchError) Error() string {
	return fmt.Sprintf("model %s was saved with module %s, cannot load with %s", e.tag, e.saved, e.want)
}

// ErrModuleMismatch constructs a moduleMismatchError.
func ErrModuleMismatch(tag, saved, want string) error {
	return moduleMismatchError{tag: tag, saved: saved, want: want}
}

// IsModuleMismatch reports whether err indicates a foreign-module artifact.
func IsModuleMismatch(err error) bool {
	_, ok := err.(moduleMismatchError)
	return ok
}
