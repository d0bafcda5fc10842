package store

// tagNotFoundError signals that a tag could not be resolved to a registered
// model version, for 404 mapping at the HTTP layer.
type tagNotFoundError struct{ tag string }

func (e tagNotFoundError) Error() string { return "tag not found: " + e.tag }

// ErrTagNotFound constructs a tagNotFoundError.
func ErrTagNotFound(tag string) error { return tagNotFoundError{tag: tag} }

// IsTagNotFound reports whether err indicates an unknown tag.
func IsTagNotFound(err error) bool {
	_, ok := err.(tagNotFoundError)
	return ok
}

// invalidNameError signals a model name that is not a valid identifier.
type invalidNameError struct{ name string }

func (e invalidNameError) Error() string { return "invalid model name: " + e.name }

// ErrInvalidName constructs an invalidNameError.
func ErrInvalidName(name string) error { return invalidNameError{name: name} }

// IsInvalidName reports whether err indicates a malformed model name.
func IsInvalidName(err error) bool {
	_, ok := err.(invalidNameError)
	return ok
}

// invalidTagError signals a tag string that does not parse as name[:version].
type invalidTagError struct{ tag string }

func (e invalidTagError) Error() string { return "invalid tag: " + e.tag }

// ErrInvalidTag constructs an invalidTagError.
func ErrInvalidTag(tag string) error { return invalidTagError{tag: tag} }

// IsInvalidTag reports whether err indicates a malformed tag.
func IsInvalidTag(err error) bool {
	_, ok := err.(invalidTagError)
	return ok
}
