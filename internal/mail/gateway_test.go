package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/yourorg/eztech-media/internal/config"
)

type fakeSMTP struct {
	sent    []*gomail.Msg
	sendErr error
	dialed  []config.Mail
}

func (f *fakeSMTP) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func newTestGateway(f *fakeSMTP, dialErr error) *Gateway {
	cfg := config.Mail{Host: "smtp.example.com", Port: 587, Login: "noreply@example.com", Password: "pw", Timeout: time.Second}
	g := New(cfg, nil)
	g.dial = func(c config.Mail) (sender, error) {
		f.dialed = append(f.dialed, c)
		if dialErr != nil {
			return nil, dialErr
		}
		return f, nil
	}
	return g
}

func TestSendDeliversPlaintext(t *testing.T) {
	f := &fakeSMTP{}
	g := newTestGateway(f, nil)
	if !g.Send(context.Background(), "customer@example.org", "Your order", "Thanks for shopping.") {
		t.Fatalf("expected send to succeed")
	}
	if len(f.sent) != 1 {
		t.Fatalf("sent %d messages", len(f.sent))
	}
	msg := f.sent[0]
	rcpts, err := msg.GetRecipients()
	if err != nil || len(rcpts) != 1 || rcpts[0] != "customer@example.org" {
		t.Fatalf("recipients %v %v", rcpts, err)
	}
	if subj := msg.GetGenHeader(gomail.HeaderSubject); len(subj) != 1 || subj[0] != "Your order" {
		t.Fatalf("subject %v", subj)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Thanks for shopping.") || !strings.Contains(buf.String(), "text/plain") {
		t.Fatalf("unexpected message:\n%s", buf.String())
	}
}

func TestSendOpensSessionPerCall(t *testing.T) {
	f := &fakeSMTP{}
	g := newTestGateway(f, nil)
	g.Send(context.Background(), "a@example.org", "s", "b")
	g.Send(context.Background(), "b@example.org", "s", "b")
	if len(f.dialed) != 2 {
		t.Fatalf("dialed %d times; want 2", len(f.dialed))
	}
}

func TestSendReportsFailures(t *testing.T) {
	if newTestGateway(&fakeSMTP{sendErr: errors.New("535 auth failed")}, nil).Send(context.Background(), "a@example.org", "s", "b") {
		t.Fatalf("expected false on smtp error")
	}
	if newTestGateway(&fakeSMTP{}, errors.New("bad host")).Send(context.Background(), "a@example.org", "s", "b") {
		t.Fatalf("expected false on dial error")
	}
	f := &fakeSMTP{}
	if newTestGateway(f, nil).Send(context.Background(), "not-an-address", "s", "b") {
		t.Fatalf("expected false on invalid recipient")
	}
	if len(f.dialed) != 0 {
		t.Fatalf("invalid recipient must not open a session")
	}
}

func TestASCIIAddress(t *testing.T) {
	got, err := asciiAddress(" kunde@Bücher.de ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "kunde@xn--bcher-kva.de" {
		t.Fatalf("got %q", got)
	}
	for _, bad := range []string{"", "@example.org", "user@", "plain"} {
		if _, err := asciiAddress(bad); !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("asciiAddress(%q) err=%v", bad, err)
		}
	}
}
