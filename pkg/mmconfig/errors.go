package mmconfig

// InvariantError reports a model that is internally inconsistent: a
// duplicate or malformed device label, use of the reserved core label, more
// than one device facet, or an unsupported schema version. It is raised at
// model validation or decode time, independent of how the model was
// produced.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return e.Message
}
