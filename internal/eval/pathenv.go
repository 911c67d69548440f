package eval

import "os"

// prependPathEnv prepends dir to the OS environment variable key, used to
// put the onnxruntime shared library's directory on the dynamic loader's
// search path before session creation (ortlib_darwin.go, ortlib_default.go).
func prependPathEnv(key, dir string) {
	existing := os.Getenv(key)
	setNativeEnv(key, dir+string(os.PathListSeparator)+existing)
}
