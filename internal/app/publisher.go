package app

// Publisher delivers outcome events after a unit of work commits. Calls must
// not block and their failures never affect the committed mutation; the
// notify package provides the buffered implementation.
type Publisher interface {
	Publish(eventType string, data any)
}
