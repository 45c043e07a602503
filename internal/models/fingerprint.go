package models

import (
	"strconv"
	"strings"
	"time"
)

// Fingerprint derives a best-effort device signature from the submitted
// browser characteristics. The hash stays bit-compatible with the one
// the public site has always stored in its durable marker, so existing
// markers keep matching. Collisions and drift after environment changes
// are expected and tolerated.
//
// When the canvas signature is missing the result degrades to a coarse,
// unstable signature (user-agent prefix plus timestamp), which makes
// the fingerprint signal a no-op for dedup.
func (d Device) Fingerprint(now time.Time) string {
	if d.CanvasSignature == "" {
		ua := d.UserAgent
		if len(ua) > 10 {
			ua = ua[:10]
		}
		return ua + strconv.FormatInt(now.UnixMilli(), 36)
	}

	joined := strings.Join([]string{
		d.UserAgent,
		d.Language,
		strconv.Itoa(d.ScreenWidth) + "x" + strconv.Itoa(d.ScreenHeight),
		strconv.Itoa(d.TimezoneOffset),
		d.CanvasSignature,
	}, "|")

	var hash int32
	for _, c := range joined {
		hash = hash*31 + int32(c)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}
