package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer 出站邮件的通用行为：好友邀请和密码重置码都走这里
type Mailer interface {
	SendInvite(toEmail, inviterName string) error
	SendResetCode(toEmail, code string) error
}

// SMTPMailer 基于 gomail 的实现
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendInvite(toEmail, inviterName string) error {
	body := fmt.Sprintf("%s invited you to split receipts together. Sign up with this email to accept the request.", inviterName)
	return m.send(toEmail, "You have a pending friend request", body)
}

func (m *SMTPMailer) SendResetCode(toEmail, code string) error {
	body := fmt.Sprintf("Your one-time password reset code is: %s", code)
	return m.send(toEmail, "Password reset code", body)
}

// NoopMailer 离线模式/测试用，只记日志不真的发
type NoopMailer struct{}

func (NoopMailer) SendInvite(toEmail, inviterName string) error {
	slog.Info("跳过邀请邮件 (offline)", "to", toEmail, "inviter", inviterName)
	return nil
}

func (NoopMailer) SendResetCode(toEmail, code string) error {
	slog.Info("跳过重置码邮件 (offline)", "to", toEmail)
	return nil
}
