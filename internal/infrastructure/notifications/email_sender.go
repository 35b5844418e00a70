package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
)

// Sender dispatches generated profiles over email.
type Sender interface {
	SendProfiles(ctx context.Context, recipient, subject string, profiles []*entities.Profile) error
}

// SMTPSender sends plain-text profile digests through an SMTP relay.
type SMTPSender struct {
	cfg  *config.SMTPConfig
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a mail dispatcher from configuration.
func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// WithSendFunc substitutes the wire-level send function.
func (s *SMTPSender) WithSendFunc(send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error) *SMTPSender {
	s.send = send
	return s
}

// SendProfiles renders the profiles as a plain-text digest and dispatches it.
// A missing transport configuration is a CONFIGURATION error so the API layer
// can report the feature as unavailable rather than failed.
func (s *SMTPSender) SendProfiles(ctx context.Context, recipient, subject string, profiles []*entities.Profile) error {
	if !s.cfg.Configured() {
		return apperrors.NewConfigurationError("smtp transport is not configured", nil)
	}
	if strings.TrimSpace(recipient) == "" {
		return apperrors.NewValidationError("recipient address is required", nil)
	}
	if len(profiles) == 0 {
		return apperrors.NewValidationError("no profiles to send", nil)
	}
	if subject == "" {
		subject = fmt.Sprintf("HCP profile digest (%d profiles)", len(profiles))
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "To: %s\r\n", recipient)
	fmt.Fprintf(&body, "Subject: %s\r\n", subject)
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")

	for i, profile := range profiles {
		fmt.Fprintf(&body, "Profile %d of %d\r\n", i+1, len(profiles))
		record := profile.Flatten()
		for _, key := range digestFields {
			if value := record[key]; value != "" {
				fmt.Fprintf(&body, "  %s: %s\r\n", key, value)
			}
		}
		body.WriteString("\r\n")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, from, []string{recipient}, []byte(body.String())); err != nil {
		log.Error().Err(err).Str("recipient", recipient).Msg("failed to dispatch profile email")
		return apperrors.NewExternalError("failed to send email", err)
	}

	log.Info().Str("recipient", recipient).Int("profiles", len(profiles)).Msg("profile email dispatched")
	return nil
}

// digestFields orders the profile fields rendered in the email body.
var digestFields = []string{
	"npi", "fullName", "specialty", "affiliation", "location", "degrees",
	"gender", "publications", "publicationYears", "engagementStyle",
	"totalTrials", "confidence", "summary",
}
