// Package mail 封装基于 gomail 的 SMTP 发信。
package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"gopkg.in/gomail.v2"
)

// smtpAuthFailed 是 SMTP 认证失败的应答码。
const smtpAuthFailed = 535

var ErrNoRecipients = errors.New("not sending email, no recipients defined")

// AuthError 表示 SMTP 服务器拒绝了认证。
// Error() 输出形如 (535, 'foobar')，与 SMTP 应答的 code/message 一一对应。
type AuthError struct {
	Code int
	Msg  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("(%d, '%s')", e.Code, e.Msg)
}

// Options 是 Mailer 的连接参数。
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NoVerify bool
}

// Sender 负责真正把邮件交给 SMTP 服务器，*gomail.Dialer 满足该接口。
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer 组装并同步发送邮件。
type Mailer struct {
	sender Sender
	from   string
}

// New 根据 Options 创建 Mailer。端口为 465 时走隐式 TLS；
// 没有配置用户名时不做 SMTP 认证。
func New(opts Options) *Mailer {
	d := gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
	if opts.Username == "" {
		d.Auth = nil
	}
	if opts.NoVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return NewWithSender(d, opts.From)
}

// NewWithSender 使用自定义 Sender 创建 Mailer，测试中用来替换真实的 SMTP 连接。
func NewWithSender(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

// NewEmail 组装一封 HTML 邮件，返回的 Email 可直接 Send。
func (m *Mailer) NewEmail(to []string, subject, htmlBody string) (*Email, error) {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return &Email{Message: msg, To: recipients, Subject: subject, mailer: m}, nil
}

// Send 同步投递一封邮件。认证失败时返回 *AuthError。
func (m *Mailer) Send(msg *gomail.Message) error {
	if m == nil || m.sender == nil {
		return errors.New("mailer is not configured")
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code == smtpAuthFailed {
			return &AuthError{Code: protoErr.Code, Msg: protoErr.Msg}
		}
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Email 是一封已经组装好、绑定了 Mailer 的邮件。
type Email struct {
	Message *gomail.Message
	To      []string
	Subject string

	mailer *Mailer
}

func (e *Email) Send() error {
	return e.mailer.Send(e.Message)
}
