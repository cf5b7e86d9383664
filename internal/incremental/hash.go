package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashArgv hashes an assembled argument vector, used for the
// "arguments-changed" check. The vector is joined with a NUL separator so
// that no concatenation of differently-split arguments collides.
func HashArgv(argv []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(argv, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// HashToolIdentity hashes a toolchain's executable path plus its reported
// version string, used for the "toolchain-changed" check.
func HashToolIdentity(execPath, version string) string {
	h := sha256.New()
	h.Write([]byte(execPath))
	h.Write([]byte{0})
	h.Write([]byte(version))
	return hex.EncodeToString(h.Sum(nil))
}

// hashKey is SidecarFileName's collision-resistant basename generator.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
