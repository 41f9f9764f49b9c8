package mail

import (
	"context"
	"fmt"

	"kloudcart/internal/config"
	"kloudcart/internal/model"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// Sender delivers receipt documents to customers. Delivery is best-effort:
// implementations report success as a boolean and never propagate transport
// errors, since the checkout pipeline must not fail on a mail problem.
type Sender interface {
	Send(ctx context.Context, to string, snapshot model.OrderSnapshot, attachmentPath string) bool
}

// smtpSender implements Sender over SMTP using go-mail.
type smtpSender struct {
	cfg    config.SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates an SMTP-backed receipt mailer.
func NewSMTPSender(cfg config.SMTPConfig, logger zerolog.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		logger: logger.With().Str("component", "receipt-mailer").Logger(),
	}
}

// Send builds and dispatches the receipt email. Any failure, from message
// construction to transport, is logged and reported as false.
func (s *smtpSender) Send(ctx context.Context, to string, snapshot model.OrderSnapshot, attachmentPath string) bool {
	msg, err := s.buildMessage(to, snapshot, attachmentPath)
	if err != nil {
		s.logger.Error().Err(err).
			Str("to", to).
			Str("order_id", snapshot.OrderID.String()).
			Msg("failed to build receipt email")
		return false
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	}
	if s.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		s.logger.Error().Err(err).Str("host", s.cfg.Host).Msg("failed to create SMTP client")
		return false
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error().Err(err).
			Str("to", to).
			Str("order_id", snapshot.OrderID.String()).
			Msg("failed to send receipt email")
		return false
	}

	s.logger.Info().
		Str("to", to).
		Str("order_id", snapshot.OrderID.String()).
		Msg("receipt email sent")

	return true
}

func (s *smtpSender) buildMessage(to string, snapshot model.OrderSnapshot, attachmentPath string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Your KloudCart Order Receipt")
	msg.SetBodyString(gomail.TypeTextPlain, plainBody(snapshot))
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody(snapshot))

	if attachmentPath != "" {
		msg.AttachFile(attachmentPath,
			gomail.WithFileName(fmt.Sprintf("KloudCart_Receipt_%s.pdf", snapshot.OrderID)))
	}

	return msg, nil
}
