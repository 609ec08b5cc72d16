package catalog

// ReloadSubject is the NATS subject that triggers a catalog reload.
const ReloadSubject = "lifeline.catalog.reload"

// ReloadRequest is the payload of a reload message. Reason is logged only.
type ReloadRequest struct {
	Reason string `json:"reason,omitempty"`
}
