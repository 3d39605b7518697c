package email

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sender interface {
	SendForgotPasswordEmail(ctx context.Context, to string, token string) error
	SendOrderEmail(ctx context.Context, to string, subject, message string) error
}

type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewSMTPSender(logger *zap.Logger) Sender {
	return &smtpSender{
		from:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		logger:   logger,
		tracer:   otel.Tracer("infrastructure/email"),
	}
}

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte("Subject: " + subject + "\n" + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error sending email",
			zap.String("to", to),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}

func (s *smtpSender) SendForgotPasswordEmail(ctx context.Context, to string, token string) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendForgotPasswordEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("to", to),
	)

	link := fmt.Sprintf("http://localhost:3000/auth/reset-password?token=%s", token)
	body := fmt.Sprintf(`
		<h1>Click this link to reset your password</h1>
		<p>If you didnt request a password reset, just ignore this message:</p>
		<a href="%s">Reset password</a>
	`, link)

	mylogger.Info(
		ctx,
		s.logger,
		"Sending forgot password email",
		zap.String("to", to),
	)

	if err := s.send(ctx, to, "You requested password reset.", body); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

func (s *smtpSender) SendOrderEmail(ctx context.Context, to string, subject, message string) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("to", to),
	)

	body := fmt.Sprintf("<p>%s</p>", message)

	mylogger.Info(
		ctx,
		s.logger,
		"Sending order email",
		zap.String("to", to),
	)

	if err := s.send(ctx, to, subject, body); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}
