package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/repository"
	"alertdesk_go/pkg/log"
	"alertdesk_go/pkg/mail"
)

// Sendable 是一封可以投递的邮件，mail.Email 满足该接口。
type Sendable interface {
	Send() error
}

// EmailComposer 为某个收件人组装评论通知邮件。
type EmailComposer func(comment *model.Comment, user *model.User) (Sendable, error)

// CommentNotifier 在新评论保存后给评论所属用户发送邮件通知。
type CommentNotifier struct {
	flags   FeatureFlags
	compose EmailComposer
	users   repository.UserRepository
}

func NewCommentNotifier(flags FeatureFlags, compose EmailComposer, users repository.UserRepository) *CommentNotifier {
	return &CommentNotifier{flags: flags, compose: compose, users: users}
}

// SendCommentNotification 是评论 post-save 信号的接收者。
// 只有新建评论且邮件通知开启时才发信，每条评论只组装一封邮件，收件人是评论所属用户。
// 发信失败只记录日志，不影响评论保存。
func (n *CommentNotifier) SendCommentNotification(ctx context.Context, comment *model.Comment, created bool) {
	if !created || comment == nil {
		return
	}
	if n.flags == nil || !n.flags.EmailsEnabled(ctx) {
		return
	}

	owner, err := n.users.FindByID(ctx, comment.UserID)
	if err != nil {
		log.Errorf("SendCommentNotification: failed to load user %d of comment %d: %v", comment.UserID, comment.ID, err)
		return
	}
	comment.User = owner

	email, err := n.compose(comment, owner)
	if err != nil {
		if errors.Is(err, mail.ErrNoRecipients) {
			log.Warnf("SendCommentNotification: user %q has no email address", owner.Username)
			return
		}
		log.Errorf("SendCommentNotification: failed to compose email for user %q: %v", owner.Username, err)
		return
	}
	if err := email.Send(); err != nil {
		var authErr *mail.AuthError
		if errors.As(err, &authErr) {
			log.Errorf("An error occurred when sending an email notification: %v", authErr)
			return
		}
		log.Errorf("SendCommentNotification: failed to send email to user %q: %v", owner.Username, err)
	}
}

var commentEmailTemplate = template.Must(template.New("comment").Parse(`<p>Hi {{.Recipient}},</p>
<p><strong>{{.Author}}</strong> commented on <a href="{{.AlertURL}}">Alert #{{.AlertID}}</a>:</p>
<blockquote>{{.Content}}</blockquote>
`))

type commentEmailData struct {
	Recipient string
	Author    string
	AlertID   uint
	AlertURL  string
	Content   string
}

// NewCommentEmailComposer 返回基于 mailer 的 EmailComposer。baseURL 用于拼接告警详情链接。
func NewCommentEmailComposer(mailer *mail.Mailer, baseURL string) EmailComposer {
	baseURL = strings.TrimRight(baseURL, "/")
	return func(comment *model.Comment, user *model.User) (Sendable, error) {
		if comment == nil || user == nil {
			return nil, ErrInvalidInput
		}
		author := fmt.Sprintf("user #%d", comment.UserID)
		if comment.User != nil {
			author = comment.User.DisplayName()
		}

		var body bytes.Buffer
		if err := commentEmailTemplate.Execute(&body, commentEmailData{
			Recipient: user.DisplayName(),
			Author:    author,
			AlertID:   comment.AlertID,
			AlertURL:  fmt.Sprintf("%s/alerts/%d", baseURL, comment.AlertID),
			Content:   comment.Content,
		}); err != nil {
			return nil, fmt.Errorf("render comment email: %w", err)
		}

		subject := fmt.Sprintf("[Alert #%d] New comment by %s", comment.AlertID, author)
		email, err := mailer.NewEmail([]string{user.Email}, subject, body.String())
		if err != nil {
			return nil, err
		}
		return email, nil
	}
}
