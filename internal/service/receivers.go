package service

import "alertdesk_go/internal/repository"

// post-save 接收者的注册 ID，测试中可据此单独 Disconnect。
const (
	ReceiverSendCommentNotification = "send_comment_notification"
	ReceiverTagAlert                = "tag_alert"
	ReceiverTagAnalysis             = "tag_analysis"
	ReceiverTagComment              = "tag_comment"
)

// RegisterReceivers 把通知和自动打标挂到 post-save 信号上。
// 评论信号上通知先于打标执行。
func RegisterReceivers(signals *repository.PostSave, notifier *CommentNotifier, tagger *Tagger) {
	if notifier != nil {
		signals.Comment.Connect(ReceiverSendCommentNotification, notifier.SendCommentNotification)
	}
	if tagger != nil {
		signals.Alert.Connect(ReceiverTagAlert, tagger.TagAlert)
		signals.Analysis.Connect(ReceiverTagAnalysis, tagger.TagAnalysis)
		signals.Comment.Connect(ReceiverTagComment, tagger.TagComment)
	}
}

// UnregisterReceivers 撤销 RegisterReceivers 注册的全部接收者。
func UnregisterReceivers(signals *repository.PostSave) {
	signals.Comment.Disconnect(ReceiverSendCommentNotification)
	signals.Alert.Disconnect(ReceiverTagAlert)
	signals.Analysis.Disconnect(ReceiverTagAnalysis)
	signals.Comment.Disconnect(ReceiverTagComment)
}
