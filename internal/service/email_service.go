package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/common"
	"github.com/MIKU-7437/astrawood/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailSender 抽象邮件发送，便于在测试中替换
type EmailSender interface {
	SendVerificationEmail(email, name, token string) error
}

type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
	}
}

// SendVerificationEmail 发送包含激活链接的验证邮件。
// 发送在后台进行，失败只记录日志，不影响注册请求本身。
func (s *EmailService) SendVerificationEmail(email, name, token string) error {
	verificationLink := fmt.Sprintf("%s/api/verify-email?token=%s", config.AppConfig.BackendURL, token)

	subject := "Verify your email"
	body := fmt.Sprintf("Hi %s, verify your email.\n%s\n\n此链接将在%d小时后过期。",
		name, verificationLink, config.AppConfig.VerificationTokenTTL)

	s.sendEmailAsync(email, subject, body)
	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		// 重试属于邮件层的职责，发送失败最多重试3次
		err := common.WithRetry(func() error {
			return s.sendEmail(to, subject, body)
		}, 3)
		if err != nil {
			util.Logger.Error("发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
