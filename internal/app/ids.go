package app

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// trackingPrefix is the carrier code stamped on every tracking number.
const trackingPrefix = "SC"

// newTrackingNumber builds a tracking number from the creation instant and a
// random suffix, e.g. SC-SGI1C3TWM0YO-9F41D2. The timestamp component keeps
// numbers monotonically distinguishable; the suffix plus a unique index in
// storage guarantees no reuse.
func newTrackingNumber(now time.Time) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)

	return trackingPrefix + "-" +
		strings.ToUpper(strconv.FormatInt(now.UnixNano(), 36)) + "-" +
		strings.ToUpper(hex.EncodeToString(suffix))
}
