package attachments

import (
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	"github.com/uscheck/uiseong-tourism/backend/pkg/config"
)

// NewAttachmentProvider selects the attachment provider from configuration.
// Unknown provider names fall back to the mock so a misconfigured
// deployment still finalizes selections.
func NewAttachmentProvider(cfg *config.QRConfig) providers.AttachmentProvider {
	switch cfg.Provider {
	case "qrserver":
		return NewQRServerAdapter(cfg.ImageURL, cfg.BaseURL)
	default:
		return NewMockAdapter(cfg.BaseURL)
	}
}
