package hookenv

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// HashMvxEnv hashes every MVX_-prefixed variable in env (os.Environ()
// shape) into a stable digest, one of the fast-path eligibility
// conjuncts ("the hash of all MVX_* environment variables is
// unchanged"). Sorted before hashing so the result is independent of
// os.Environ()'s unspecified ordering.
func HashMvxEnv(env []string) string {
	var relevant []string
	for _, kv := range env {
		if strings.HasPrefix(kv, "MVX_") {
			relevant = append(relevant, kv)
		}
	}
	sort.Strings(relevant)

	h := sha256.New()
	for _, kv := range relevant {
		h.Write([]byte(kv))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
