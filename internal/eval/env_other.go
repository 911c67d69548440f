//go:build !windows

package eval

import "os"

func setNativeEnv(key, value string) {
	_ = os.Setenv(key, value)
}
