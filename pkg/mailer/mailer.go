// Package mailer sends plain-text notification emails over SMTP
package mailer

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config SMTP 配置
type Config struct {
	Enable             bool   `yaml:"enable"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port" default:"587"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	From               string `yaml:"from"`
	SSL                bool   `yaml:"ssl"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify"`
}

// Message 一封纯文本邮件
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender 通过 gomail 投递
// 连接由 net.Dialer 建立，读写截止时间跟随 ctx，SMTP 服务停顿时按 ctx 超时返回
type SMTPSender struct {
	host      string
	port      int
	user      string
	password  string
	from      string
	ssl       bool
	tlsConfig *tls.Config
}

// New 根据配置返回发送器，未启用 SMTP 时只记录日志
func New(cfg Config, logger *zap.Logger) Sender {
	if !cfg.Enable || cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}

func NewSMTPSender(cfg Config) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPSender{
		host:      cfg.Host,
		port:      cfg.Port,
		user:      cfg.User,
		password:  cfg.Password,
		from:      from,
		ssl:       cfg.SSL,
		tlsConfig: &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.InsecureSkipVerify},
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	c, closeConn, err := s.dial(ctx)
	if err != nil {
		return errors.Wrap(err, "mailer: dial")
	}
	defer closeConn()

	if err := gomail.Send(smtpSession{c}, m); err != nil {
		return errors.Wrap(err, "mailer: send")
	}
	if err := c.Quit(); err != nil {
		return errors.Wrap(err, "mailer: quit")
	}
	return nil
}

// dial 建立 SMTP 会话：TLS 或 STARTTLS，有账号时认证
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, func(), error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	raw, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(deadline)
	}
	// 取消时让阻塞中的读写立即返回
	stop := context.AfterFunc(ctx, func() { _ = raw.SetDeadline(time.Now()) })

	conn := raw
	if s.ssl {
		conn = tls.Client(conn, s.tlsConfig)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, nil, err
	}
	closeConn := func() {
		stop()
		_ = c.Close()
	}

	if !s.ssl {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(s.tlsConfig); err != nil {
				closeConn()
				return nil, nil, err
			}
		}
	}
	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
				closeConn()
				return nil, nil, err
			}
		}
	}
	return c, closeConn, nil
}

// smtpSession 把 smtp.Client 适配为 gomail.Sender
type smtpSession struct {
	c *smtp.Client
}

func (t smtpSession) Send(from string, to []string, msg io.WriterTo) error {
	if err := t.c.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := t.c.Rcpt(addr); err != nil {
			return err
		}
	}
	w, err := t.c.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// LogSender 不投递，只记录日志
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.logger != nil {
		s.logger.Info("mail not delivered, smtp disabled",
			zap.String("recipient", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
	return nil
}
