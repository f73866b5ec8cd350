package email

import (
	"context"
	"fmt"
	"time"

	"giftlist/internal/config"
	"giftlist/internal/logger"
	"giftlist/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	baseURL     string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		baseURL:     cfg.BaseURL,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

func (s *Service) SendWelcomeEmail(user *models.User) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Welcome to Giftlist, %s!", user.Name)
	htmlBody := s.generateWelcomeHTML(user)
	textBody := s.generateWelcomeText(user)

	return s.send(user.Email, subject, textBody, htmlBody)
}

// SendReservationEmail tells the event owner a guest just claimed one
// of their gifts. Best effort; a claim never fails because of email.
func (s *Service) SendReservationEmail(owner *models.User, event *models.Event, item *models.GiftItem, purchase *models.Purchase) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("%q was reserved on %s", item.Name, event.Title)
	htmlBody := s.generateReservationHTML(owner, event, item, purchase)
	textBody := s.generateReservationText(owner, event, item, purchase)

	return s.send(owner.Email, subject, textBody, htmlBody)
}

func (s *Service) send(to, subject, textBody, htmlBody string) error {
	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		to,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logger.Info("Email sent", "email", to, "message_id", resp)
	return nil
}
