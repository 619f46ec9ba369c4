package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/pkg/logger"
	"github.com/haierkeys/fast-file-share-service/pkg/mailer"
	"github.com/haierkeys/fast-file-share-service/pkg/metrics"
	"github.com/haierkeys/fast-file-share-service/pkg/workerpool"

	"go.uber.org/zap"
)

// ShareNotification 分享通知邮件的内容
type ShareNotification struct {
	SenderEmail string
	FileName    string
	ShareURL    string
	Link        *domain.ShareLink
}

// Notifier 投递分享通知，失败只记录日志
type Notifier interface {
	NotifyShare(ctx context.Context, n ShareNotification)
}

type mailNotifier struct {
	sender  mailer.Sender
	pool    *workerpool.Pool
	logger  *zap.Logger
	timeout time.Duration
}

// NewMailNotifier 通过 worker pool 异步发送邮件
func NewMailNotifier(sender mailer.Sender, pool *workerpool.Pool, lg *zap.Logger, timeout time.Duration) Notifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &mailNotifier{sender: sender, pool: pool, logger: lg, timeout: timeout}
}

// NotifyShare 投递到 worker pool 后立即返回
func (n *mailNotifier) NotifyShare(ctx context.Context, sn ShareNotification) {
	msg := mailer.Message{
		To:      sn.Link.RecipientEmail,
		Subject: fmt.Sprintf("%s shared a file with you", sn.SenderEmail),
		Body:    ShareMailBody(sn),
	}
	// 请求结束后邮件仍需发送
	bg := context.WithoutCancel(ctx)

	err := n.pool.SubmitAsync(bg, "share-notify", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			metrics.MailFailures.Inc()
			n.logger.Warn("share notification failed",
				zap.String(logger.FieldShareID, sn.Link.ID),
				zap.String(logger.FieldRecipient, msg.To),
				zap.Error(err),
			)
		}
		return nil
	})
	if err != nil {
		metrics.MailFailures.Inc()
		n.logger.Warn("share notification not queued",
			zap.String(logger.FieldShareID, sn.Link.ID),
			zap.Error(err),
		)
	}
}

// ShareMailBody 纯文本邮件正文
func ShareMailBody(sn ShareNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%s has shared a file with you: %s\n\n", sn.SenderEmail, sn.FileName)
	fmt.Fprintf(&b, "Download link: %s\n", sn.ShareURL)
	fmt.Fprintf(&b, "This link expires at %s.\n", sn.Link.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
	if sn.Link.Message != "" {
		fmt.Fprintf(&b, "\nMessage from %s:\n%s\n", sn.SenderEmail, sn.Link.Message)
	}
	return b.String()
}
