package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/util"
	"study_tracker/pkg/lock"
	"study_tracker/pkg/logger"
	"study_tracker/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReminderService 定时/事件触发的提醒：确保档案存在、生成激励短句、附上摘要、可选推送
type ReminderService struct {
	UserRepo   *repository.UserRepository
	Locker     lock.Locker
	Messages   *MessageService
	Dispatcher Dispatcher // nil 表示不推送
	ChannelID  string
	Calendar   *Calendar
}

func NewReminderService(userRepo *repository.UserRepository, locker lock.Locker, messages *MessageService, dispatcher Dispatcher, channelID string, calendar *Calendar) *ReminderService {
	return &ReminderService{
		UserRepo:   userRepo,
		Locker:     locker,
		Messages:   messages,
		Dispatcher: dispatcher,
		ChannelID:  channelID,
		Calendar:   calendar,
	}
}

func (s *ReminderService) Remind(ctx context.Context, event model.ReminderEvent) (envelope *model.ReminderEnvelope, err error) {
	userID := strings.TrimSpace(event.UserID)
	ctx, span := tracing.StartSpan(ctx, "reminder.remind", attribute.String("user_id", userID))
	defer func() { tracing.EndSpan(span, err) }()

	if err := util.ValidateUserID(userID); err != nil {
		return nil, err
	}

	record, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	message, err := s.Messages.Generate(ctx, BuildPrompt(record))
	if err != nil {
		return nil, err
	}

	summary := FormatDigest(BuildSummary(record))

	envelope = &model.ReminderEnvelope{
		Message: message,
		Summary: summary,
		Date:    s.Calendar.Today().Format(util.DateFormat),
	}

	if s.Dispatcher != nil {
		receipt, err := s.Dispatcher.Dispatch(ctx, message, summary, s.ChannelID)
		if err != nil {
			return nil, err
		}
		envelope.NotificationID = receipt
	}

	logger.Log.Info("Reminder generated",
		zap.String("user_id", userID),
		zap.Bool("dispatched", envelope.NotificationID != ""),
	)
	return envelope, nil
}

func (s *ReminderService) loadOrInit(ctx context.Context, userID string) (*model.UserRecord, error) {
	unlock, err := s.Locker.Lock(ctx, userID)
	if err != nil {
		return nil, util.WrapCollaborator(util.CollaboratorLockStore, err)
	}
	defer unlock()

	record, _, err := s.UserRepo.GetOrCreate(ctx, userID)
	return record, err
}

// RemindAll 对所有已知用户执行一次提醒，单个用户失败不影响其他用户
func (s *ReminderService) RemindAll(ctx context.Context) (sent int, err error) {
	ids, err := s.UserRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if _, err := s.Remind(ctx, model.ReminderEvent{UserID: id}); err != nil {
			logger.Log.Error("Scheduled reminder failed", zap.String("user_id", id), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// EventResponse 事件入口的返回：状态码 + JSON body
type EventResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// HandleEvent 事件入口，所有错误都转换成 {error} 信封
func (s *ReminderService) HandleEvent(ctx context.Context, event model.ReminderEvent) EventResponse {
	envelope, err := s.Remind(ctx, event)
	if err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		if errors.Is(err, util.ErrMissingUserID) {
			status = http.StatusBadRequest
			msg = "Missing user_id in event"
		} else if util.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		body, _ := json.Marshal(map[string]string{"error": msg})
		return EventResponse{StatusCode: status, Body: string(body)}
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
		return EventResponse{StatusCode: http.StatusInternalServerError, Body: string(body)}
	}
	return EventResponse{StatusCode: http.StatusOK, Body: string(body)}
}
