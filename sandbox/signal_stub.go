//go:build !unix

package sandbox

// SignalDescription always reports no value on platforms without textual
// signal descriptions.
func SignalDescription(int) (string, bool) {
	return "", false
}
