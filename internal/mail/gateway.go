package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"golang.org/x/net/idna"

	"github.com/yourorg/eztech-media/internal/config"
	"github.com/yourorg/eztech-media/internal/logging"
	"github.com/yourorg/eztech-media/internal/metrics"
)

// ErrInvalidRecipient is logged when the recipient address cannot be encoded.
var ErrInvalidRecipient = errors.New("invalid recipient address")

// sender is the part of *gomail.Client the gateway uses; tests fake it.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// dialer builds one SMTP client per Send call.
type dialer func(cfg config.Mail) (sender, error)

func newSMTPClient(cfg config.Mail) (sender, error) {
	c, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(cfg.Login),
		gomail.WithPassword(cfg.Password),
		gomail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Gateway sends plaintext transactional mail from the configured login.
type Gateway struct {
	cfg  config.Mail
	dial dialer
	log  *zap.Logger
}

func New(cfg config.Mail, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:  cfg,
		dial: newSMTPClient,
		log:  logging.OrNop(logger).With(zap.String("component", "mail")),
	}
}

// Send opens one SMTP session, delivers one message and reports success.
// The failure cause is logged, never returned.
func (g *Gateway) Send(ctx context.Context, recipient, subject, body string) bool {
	err := g.send(ctx, recipient, subject, body)
	metrics.MailSent.WithLabelValues(metrics.Outcome(err == nil)).Inc()
	if err != nil {
		g.log.Error("mail not sent", zap.String("recipient", recipient), zap.String("subject", subject), zap.Error(err))
		return false
	}
	g.log.Info("mail sent", zap.String("recipient", recipient))
	return true
}

func (g *Gateway) send(ctx context.Context, recipient, subject, body string) error {
	to, err := asciiAddress(recipient)
	if err != nil {
		return err
	}
	msg := gomail.NewMsg()
	if err := msg.From(g.cfg.Login); err != nil {
		return fmt.Errorf("sender %q: %w", g.cfg.Login, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := g.dial(g.cfg)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// asciiAddress converts the domain part to its IDNA form, e.g. user@bücher.de
// becomes user@xn--bcher-kva.de.
func asciiAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	i := strings.LastIndexByte(addr, '@')
	if i <= 0 || i == len(addr)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
	}
	domain, err := idna.Lookup.ToASCII(addr[i+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidRecipient, addr, err)
	}
	return addr[:i+1] + strings.ToLower(domain), nil
}
