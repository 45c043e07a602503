package models

// Device carries the browser characteristics the client submits with a
// visit. They feed the fingerprint; none of them is trusted to be
// stable or unique.
type Device struct {
	UserAgent       string `json:"userAgent"`
	Language        string `json:"language"`
	ScreenWidth     int    `json:"screenWidth"`
	ScreenHeight    int    `json:"screenHeight"`
	TimezoneOffset  int    `json:"timezoneOffset"`
	CanvasSignature string `json:"canvasSignature"`
}

// VisitInput is the POST /visit payload. The three marker fields are
// the client's stored copies of the markers a previous visit returned;
// any of them may be empty when storage is unavailable on the client.
type VisitInput struct {
	LastVisitDate    string `json:"lastVisitDate"`
	SessionVisitDate string `json:"sessionVisitDate"`
	LastFingerprint  string `json:"lastFingerprint"`
	Device           Device `json:"device"`
}

// VisitMarkers are the values the client should store after a counted
// visit. They are only issued after the record write succeeded, so a
// failed write leaves the client's markers stale and the visit is
// retried (and possibly re-counted) on the next page load.
type VisitMarkers struct {
	LastVisitDate    string `json:"lastVisitDate"`
	SessionVisitDate string `json:"sessionVisitDate"`
	Fingerprint      string `json:"fingerprint"`
}

// VisitReceipt is the tracker's response. Counted reports whether this
// visit incremented the daily counters; Markers is nil when nothing
// should be stored (repeat visit or silent failure).
type VisitReceipt struct {
	Counted bool          `json:"counted"`
	Markers *VisitMarkers `json:"markers,omitempty"`
}
