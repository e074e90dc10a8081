//go:build !unix

package platform

// DisableCoreDumps is a no-op where core dump limits are not available
func DisableCoreDumps() error {
	return nil
}
