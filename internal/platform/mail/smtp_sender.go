package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/tutorway/tutorway-api/internal/config"
	"github.com/tutorway/tutorway-api/internal/notify"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
)

// DefaultTimeout bounds the dial and each SMTP command.
const DefaultTimeout = 15 * time.Second

var (
	// ErrNotConfigured is returned by NewSMTPSender when host or sender address is missing.
	ErrNotConfigured = errors.New("smtp sender is not configured")

	// ErrDeliveryFailed wraps every transport failure returned by Send.
	ErrDeliveryFailed = errors.New("mail delivery failed")
)

// SMTPSender delivers notify messages through an SMTP relay.
// A new client is built for every message; nothing is pooled.
type SMTPSender struct {
	host        string
	fromName    string
	fromAddress string
	options     []gomail.Option
	logger      *slog.Logger
}

var _ notify.Sender = (*SMTPSender)(nil)

// NewSMTPSender creates an SMTPSender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig, log *slog.Logger) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.FromAddress) == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = slog.Default()
	}

	policy, err := parseTLSPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if port <= 0 {
		port = gomail.DefaultPortTLS
	}

	options := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(policy),
		gomail.WithTimeout(DefaultTimeout),
	}
	if cfg.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	return &SMTPSender{
		host:        cfg.Host,
		fromName:    cfg.AppName,
		fromAddress: cfg.FromAddress,
		options:     options,
		logger:      log.With(slog.String("component", "smtp_sender")),
	}, nil
}

func parseTLSPolicy(name string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mandatory":
		return gomail.TLSMandatory, nil
	case "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "none":
		return gomail.NoTLS, nil
	default:
		return gomail.TLSMandatory, fmt.Errorf("unknown tls policy %q", name)
	}
}

// buildMessage converts a notify message into a go-mail message.
func (s *SMTPSender) buildMessage(msg notify.Message) (*gomail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromAddress); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}

// Send dials the relay, which verifies connectivity and authentication,
// then delivers msg and closes the connection.
func (s *SMTPSender) Send(ctx context.Context, msg notify.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("%w: failed to create client: %w", ErrDeliveryFailed, err)
	}

	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("%w: failed to connect to smtp server: %w", ErrDeliveryFailed, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close smtp connection", "error", closeErr.Error())
		}
	}()

	if err := client.Send(m); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	log.Info("mail delivered", "subject", msg.Subject)
	return nil
}
