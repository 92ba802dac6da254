package attachments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
)

// QRServerAdapter implements AttachmentProvider on the qrserver.com image
// API. The QR encodes an access URL for the finalized selection; the image
// URL is built client-side, so generation only needs a reachability probe.
type QRServerAdapter struct {
	imageBaseURL  string
	accessBaseURL string
	client        *http.Client
}

// NewQRServerAdapter creates a new qrserver adapter
func NewQRServerAdapter(imageBaseURL, accessBaseURL string) providers.AttachmentProvider {
	if imageBaseURL == "" {
		imageBaseURL = "https://api.qrserver.com/v1/create-qr-code/"
	}
	return &QRServerAdapter{
		imageBaseURL:  imageBaseURL,
		accessBaseURL: accessBaseURL,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Generate builds the access URL and QR image URL for a selection
func (a *QRServerAdapter) Generate(ctx context.Context, payload *providers.AttachmentPayload) (*providers.AttachmentResult, error) {
	if payload == nil || payload.SelectionID == "" {
		return nil, fmt.Errorf("attachment payload requires a selection id")
	}

	accessURL := strings.TrimRight(a.accessBaseURL, "/") + "/" + payload.SelectionID

	params := url.Values{}
	params.Set("size", "300x300")
	params.Set("data", accessURL)
	qrURL := a.imageBaseURL + "?" + params.Encode()

	// Probe the image endpoint so a dead provider surfaces as a failed
	// (non-fatal) attachment rather than a broken link on the client.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, qrURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return &providers.AttachmentResult{
			Success: false,
			Message: fmt.Sprintf("qr provider unreachable: %v", err),
		}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &providers.AttachmentResult{
			Success: false,
			Message: fmt.Sprintf("qr provider returned status %d", resp.StatusCode),
		}, nil
	}

	return &providers.AttachmentResult{
		Success:   true,
		QRURL:     qrURL,
		AccessURL: accessURL,
	}, nil
}
