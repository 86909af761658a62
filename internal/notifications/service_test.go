package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
)

type fakeSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func TestCertificateIssued_SendsEmail(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, zap.NewNop())

	cert := &artifacts.Certificate{
		ID:              uuid.New(),
		CertificateType: "participation",
		Filename:        "participation_Tech_Symposium_Asha_Verma.pdf",
	}
	notifier.CertificateIssued(context.Background(), "asha@example.edu", "Asha Verma", cert, "https://signed.example/x.pdf")

	assert.Equal(t, "asha@example.edu", sender.to)
	assert.Equal(t, "Your participation certificate is ready", sender.subject)
	assert.Contains(t, sender.body, "Asha Verma")
	assert.Contains(t, sender.body, cert.Filename)
	assert.Contains(t, sender.body, "https://signed.example/x.pdf")
}

func TestCertificateIssued_OmitsMissingDownloadLink(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, zap.NewNop())

	cert := &artifacts.Certificate{ID: uuid.New(), CertificateType: "merit", Filename: "merit.pdf"}
	notifier.CertificateIssued(context.Background(), "a@example.edu", "A", cert, "")

	assert.NotContains(t, sender.body, "Download it here")
}

func TestCertificateIssued_SendFailureDoesNotPanic(t *testing.T) {
	sender := &fakeSender{err: errors.New("ses throttled")}
	notifier := NewNotifier(sender, zap.NewNop())

	cert := &artifacts.Certificate{ID: uuid.New(), CertificateType: "participation", Filename: "p.pdf"}
	assert.NotPanics(t, func() {
		notifier.CertificateIssued(context.Background(), "a@example.edu", "A", cert, "")
	})
}

func TestCertificateIssued_SurvivesCanceledRequestContext(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cert := &artifacts.Certificate{ID: uuid.New(), CertificateType: "participation", Filename: "p.pdf"}
	notifier.CertificateIssued(ctx, "a@example.edu", "A", cert, "")

	// The send still happened despite the caller's context being done.
	assert.Equal(t, "a@example.edu", sender.to)
}
