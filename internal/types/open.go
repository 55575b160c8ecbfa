package types

// StatusOK is the only status token the helper uses to report success.
// Every other value is a failure.
const StatusOK = "ok"

// OpenRequest is the payload posted to the helper's /open endpoint.
type OpenRequest struct {
	URL string `json:"url"` // Opaque link, passed through unmodified
	IDE string `json:"ide"` // Identity of the calling environment
}

// OpenResponse is the helper's reply to an OpenRequest.
type OpenResponse struct {
	Status  string `json:"status"`         // "ok" or a failure token
	Message string `json:"message"`        // Human-readable explanation
	Path    string `json:"path,omitempty"` // Local path the link resolved to, if any
}

// OK reports whether the helper accepted the request.
func (r *OpenResponse) OK() bool {
	return r != nil && r.Status == StatusOK
}

// HealthStatus is the helper's reply to GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}
