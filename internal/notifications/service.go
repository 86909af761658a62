package notifications

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
)

// Notifier emails participants when their certificate is issued. Delivery is
// best effort: failures are logged and never bubble into the pipeline result.
type Notifier struct {
	sender EmailSender
	logger *zap.Logger
}

func NewNotifier(sender EmailSender, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

func (n *Notifier) CertificateIssued(ctx context.Context, recipientEmail, recipientName string, cert *artifacts.Certificate, downloadURL string) {
	// Issuance already succeeded; give the email its own deadline so a slow
	// provider can't hold the request open.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Your %s certificate is ready", cert.CertificateType)
	body := fmt.Sprintf("Hello %s,\n\nYour certificate %s has been generated.", recipientName, cert.Filename)
	if downloadURL != "" {
		body += fmt.Sprintf("\n\nDownload it here (link expires): %s", downloadURL)
	}

	if err := n.sender.Send(ctx, recipientEmail, subject, body); err != nil {
		n.logger.Warn("Failed to send issuance email",
			zap.String("certificate_id", cert.ID.String()),
			zap.String("recipient", recipientEmail),
			zap.Error(err))
		return
	}
	n.logger.Info("Issuance email sent",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("recipient", recipientEmail))
}
