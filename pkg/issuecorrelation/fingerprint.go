package issuecorrelation

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ComputeTraceHash returns the SHA256 hex fingerprint of an ordered list of trace steps.
// Steps are length prefixed so different splits of the same text never collide.
func ComputeTraceHash(steps []string) string {
	h := sha256.New()
	for _, step := range steps {
		h.Write([]byte(strconv.Itoa(len(step))))
		h.Write([]byte{':'})
		h.Write([]byte(step))
	}
	return hex.EncodeToString(h.Sum(nil))
}
