package classifier

// shutdownError signals the classifier was closed while a request was queued
// or in flight.
type shutdownError struct{}

func (shutdownError) Error() string { return "classifier is shut down" }

// IsShutdown reports whether err indicates the classifier was closed.
func IsShutdown(err error) bool {
	_, ok := err.(shutdownError)
	return ok
}
