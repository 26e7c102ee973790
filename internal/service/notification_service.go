package service

import (
	"context"
	"fmt"
	"study_tracker/internal/util"
	"study_tracker/pkg/logger"
	"study_tracker/pkg/monitoring"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const (
	NotificationSubject = "Your Daily Study Motivation"
	// 通知标题放在消息头中
	SubjectHeader = "Study-Subject"
)

// Dispatcher 将激励短句和摘要推送到外部通道，返回投递回执
type Dispatcher interface {
	Dispatch(ctx context.Context, message, summary, channelID string) (string, error)
}

// NotificationBody 正文 = 激励短句 + 空行 + 摘要
func NotificationBody(message, summary string) string {
	return message + "\n\n" + summary
}

// NATSDispatcher 通过 JetStream 发布，回执为 "{stream}-{sequence}"
type NATSDispatcher struct {
	js jetstream.JetStream
}

func NewNATSDispatcher(js jetstream.JetStream) *NATSDispatcher {
	return &NATSDispatcher{js: js}
}

func (d *NATSDispatcher) Dispatch(ctx context.Context, message, summary, channelID string) (string, error) {
	msg := nats.NewMsg(channelID)
	msg.Header.Set(SubjectHeader, NotificationSubject)
	msg.Data = []byte(NotificationBody(message, summary))

	ack, err := d.js.PublishMsg(ctx, msg, jetstream.WithMsgID(uuid.New().String()))
	if err != nil {
		monitoring.NotificationsPublished.WithLabelValues("error").Inc()
		return "", util.WrapCollaborator(util.CollaboratorPubSub, err)
	}

	monitoring.NotificationsPublished.WithLabelValues("ok").Inc()
	receipt := fmt.Sprintf("%s-%d", ack.Stream, ack.Sequence)
	logger.Log.Info("Notification published", zap.String("channel", channelID), zap.String("receipt", receipt))
	return receipt, nil
}
