package service

import (
	"context"
	"math"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/util"
	"study_tracker/pkg/lock"
	"study_tracker/pkg/logger"
	"study_tracker/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

const checkinSuccessMessage = "Check-in successful."

// Clock 返回当前时间，测试中可替换
type Clock func() time.Time

// ApplyCheckin 在 record 上应用一次打卡并返回它。today 只取日期部分。
//
// 连续天数规则：首次打卡为 1；上次为昨天则 +1；上次为今天则不变；其余情况重置为 1。
// total_hours 每次累加按两位小数取整后的增量，不对总数再取整。
func ApplyCheckin(record *model.UserRecord, sub model.CheckinSubmission, today time.Time) *model.UserRecord {
	todayStr := today.Format(util.DateFormat)
	yesterdayStr := today.AddDate(0, 0, -1).Format(util.DateFormat)

	switch {
	case record.LastCheckin == nil:
		record.StreakDays = 1
	case *record.LastCheckin == yesterdayStr:
		record.StreakDays++
	case *record.LastCheckin == todayStr:
		// 同一天重复打卡，连续天数不变
		if record.StreakDays < 1 {
			record.StreakDays = 1
		}
	default:
		record.StreakDays = 1
	}

	record.LastCheckin = &todayStr

	chapters := make([]string, len(sub.ChaptersCovered))
	copy(chapters, sub.ChaptersCovered)

	record.CheckIns = append(record.CheckIns, model.CheckInEntry{
		Date:            todayStr,
		DurationMins:    sub.DurationMins,
		ChaptersCovered: chapters,
		QuestionsDone:   sub.QuestionsDone,
		MockDone:        sub.MockDone,
		Notes:           sub.Notes,
	})

	m := &record.Milestones
	m.TotalHours += roundHours(sub.DurationMins)
	m.TotalQuestions += sub.QuestionsDone
	if sub.MockDone {
		m.MockExamsDone++
	}
	m.ChaptersCompleted = mergeChapters(m.ChaptersCompleted, chapters)
	m.TotalSessions++

	return record
}

func roundHours(mins int) float64 {
	return math.Round(float64(mins)/60*100) / 100
}

// mergeChapters 按首次出现顺序合并，去重
func mergeChapters(completed, covered []string) []string {
	if completed == nil {
		completed = []string{}
	}
	seen := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		seen[c] = struct{}{}
	}
	for _, c := range covered {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		completed = append(completed, c)
	}
	return completed
}

// Calendar 按配置时区给出"今天"
type Calendar struct {
	Clock    Clock
	Location *time.Location
}

func NewCalendar(clock Clock, loc *time.Location) *Calendar {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{Clock: clock, Location: loc}
}

// Today 当前日期零点
func (c *Calendar) Today() time.Time {
	now := c.Clock().In(c.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location)
}

// CheckinService 处理打卡请求：加锁、读取或初始化档案、更新、写回
type CheckinService struct {
	UserRepo *repository.UserRepository
	Locker   lock.Locker
	Calendar *Calendar
}

func NewCheckinService(userRepo *repository.UserRepository, locker lock.Locker, calendar *Calendar) *CheckinService {
	return &CheckinService{
		UserRepo: userRepo,
		Locker:   locker,
		Calendar: calendar,
	}
}

func (s *CheckinService) Checkin(ctx context.Context, sub model.CheckinSubmission) (*model.CheckinResult, error) {
	if err := util.ValidateUserID(sub.UserID); err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, sub.UserID)
	if err != nil {
		return nil, util.WrapCollaborator(util.CollaboratorLockStore, err)
	}
	defer unlock()

	record, created, err := s.UserRepo.GetOrCreate(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Log.Info("Created blank record on first check-in", zap.String("user_id", sub.UserID))
	}

	ApplyCheckin(record, sub, s.Calendar.Today())

	if err := s.UserRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	monitoring.CheckinCounter.Inc()
	logger.Log.Info("Check-in recorded",
		zap.String("user_id", record.UserID),
		zap.Int("streak_days", record.StreakDays),
		zap.Int("total_sessions", record.Milestones.TotalSessions),
	)

	return &model.CheckinResult{
		Message:    checkinSuccessMessage,
		StreakDays: record.StreakDays,
		Milestones: record.Milestones,
	}, nil
}
