package providers

import (
	"context"
	"time"
)

// AttachmentPayload carries everything the attachment provider needs to
// render a shareable artifact for a finalized selection.
type AttachmentPayload struct {
	SelectionID   string      `json:"selection_id"`
	SessionID     string      `json:"session_id"`
	UserID        string      `json:"user_id,omitempty"`
	OriginalQuery string      `json:"original_query"`
	Spots         []SpotBrief `json:"spots"`
	Timestamp     time.Time   `json:"timestamp"`
}

// SpotBrief is the minimal spot representation embedded in attachments.
type SpotBrief struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Address  string `json:"addr1,omitempty"`
}

// AttachmentResult reports the outcome of attachment generation. Failure is
// non-fatal to the finalize operation.
type AttachmentResult struct {
	Success   bool   `json:"success"`
	QRURL     string `json:"qr_url,omitempty"`
	AccessURL string `json:"access_url,omitempty"`
	Message   string `json:"message,omitempty"`
}

// AttachmentProvider generates external attachments (QR code, share link)
// for a finalized selection.
type AttachmentProvider interface {
	Generate(ctx context.Context, payload *AttachmentPayload) (*AttachmentResult, error)
}
