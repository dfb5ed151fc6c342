// Package sender отправляет письма с учётными данными, полученные из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/shop-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/shop-admin/internal/models"
)

// CredentialsSubject — тема письма с паролем.
const CredentialsSubject = "Your Account Password"

// ErrBadMessage — сообщение из очереди не удалось разобрать. Повтор не поможет,
// поэтому ошибка обёрнута в rabbitmq.ErrDiscard.
var ErrBadMessage = fmt.Errorf("bad credentials message: %w", rabbitmq.ErrDiscard)

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр Service.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendCredentials разбирает CredentialsNotification и отправляет письмо с паролем.
// Пароль в логи не попадает.
func (s *Service) SendCredentials(body []byte) error {
	const op = "sender.SendCredentials"
	log := s.log.With(slog.String("op", op))

	var message models.CredentialsNotification
	if err := json.Unmarshal(body, &message); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %v", op, ErrBadMessage, err)
	}
	if message.Email == "" || message.Password == "" {
		log.Error("credentials message without email or password")
		return fmt.Errorf("%s: %w: empty email or password", op, ErrBadMessage)
	}

	if err := s.sendEmail([]string{message.Email}, CredentialsSubject, credentialsBody(message)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("credentials email sent", slog.String("to", message.Email))
	return nil
}

func credentialsBody(m models.CredentialsNotification) string {
	name := m.Name
	if name == "" {
		name = m.Email
	}
	return fmt.Sprintf("Hello %s,\n\n"+
		"Your account has been created successfully.\n\n"+
		"Email: %s\n"+
		"Your Password: %s\n\n"+
		"Please login and change your password immediately.",
		name, m.Email, m.Password)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := smtp.BuildMessage(from, to, subject, bodyText)

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		// после Quit соединение уже закрыто, ошибка здесь ожидаема
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write(msg); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
