package attachments

import (
	"context"
	"fmt"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
)

// MockAdapter provides deterministic attachments for local development.
type MockAdapter struct {
	accessBaseURL string
}

// NewMockAdapter creates a mock attachment provider.
func NewMockAdapter(accessBaseURL string) providers.AttachmentProvider {
	if accessBaseURL == "" {
		accessBaseURL = "http://localhost:8080/qr/"
	}
	return &MockAdapter{accessBaseURL: accessBaseURL}
}

// Generate returns stable mock URLs derived from the selection id.
func (m *MockAdapter) Generate(ctx context.Context, payload *providers.AttachmentPayload) (*providers.AttachmentResult, error) {
	if payload == nil || payload.SelectionID == "" {
		return nil, fmt.Errorf("attachment payload requires a selection id")
	}

	accessURL := m.accessBaseURL + payload.SelectionID
	return &providers.AttachmentResult{
		Success:   true,
		QRURL:     fmt.Sprintf("https://example.com/qr/%s.png", payload.SelectionID),
		AccessURL: accessURL,
	}, nil
}
