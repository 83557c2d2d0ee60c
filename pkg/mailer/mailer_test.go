package mailer

import (
	"context"
	"fmt"
	"testing"

	gomail "gopkg.in/gomail.v2"

	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func TestSendBuildsMessage(t *testing.T) {
	fake := &fakeDialer{}
	m := &mailer{dialer: fake, from: "noreply@staffhub.io", logg: testLogger()}

	err := m.Send(context.Background(), Message{
		To:      "worker@example.com",
		Subject: "Welcome",
		Body:    "Your account is ready.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.sent))
	}
	to := fake.sent[0].GetHeader("To")
	if len(to) != 1 || to[0] != "worker@example.com" {
		t.Fatalf("unexpected recipient: %v", to)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	m := &mailer{dialer: &fakeDialer{}, from: "noreply@staffhub.io", logg: testLogger()}
	if err := m.Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestSendWrapsDialerError(t *testing.T) {
	m := &mailer{dialer: &fakeDialer{err: fmt.Errorf("connection refused")}, from: "noreply@staffhub.io", logg: testLogger()}
	err := m.Send(context.Background(), Message{To: "worker@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	sender, err := New(config.SMTPConfig{}, testLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := sender.(*noopMailer); !ok {
		t.Fatalf("expected noop sender, got %T", sender)
	}
	if err := sender.Send(context.Background(), Message{To: "worker@example.com"}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}
