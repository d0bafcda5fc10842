package predictor

// artifactCorruptError signals that an artifact could not be read or decoded.
type artifactCorruptError struct {
	path string
	msg  string
}

func (e artifactCorruptError) Error() string { return "corrupt artifact " + e.path + ": " + e.msg }

// ErrArtifactCorrupt constructs an artifactCorruptError.
func ErrArtifactCorrupt(path, msg string) error { return artifactCorruptError{path: path, msg: msg} }

// IsArtifactCorrupt reports whether err indicates an unreadable artifact.
func IsArtifactCorrupt(err error) bool {
	_, ok := err.(artifactCorruptError)
	return ok
}

// unknownFamilyError signals an artifact whose predictor family this build
// has no support for. The Go analogue of a missing framework dependency.
type unknownFamilyError struct{ family string }

func (e unknownFamilyError) Error() string { return "unknown predictor family: " + e.family }

// ErrUnknownFamily constructs an unknownFamilyError.
func ErrUnknownFamily(family string) error { return unknownFamilyError{family: family} }

// IsUnknownFamily reports whether err indicates an unsupported predictor family.
func IsUnknownFamily(err error) bool {
	_, ok := err.(unknownFamilyError)
	return ok
}
