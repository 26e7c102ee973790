package service

import (
	"context"
	"fmt"
	"study_tracker/internal/model"
	"study_tracker/internal/util"
	"study_tracker/pkg/lock"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCheckin_FirstCheckin(t *testing.T) {
	record := model.NewUserRecord("alice")

	ApplyCheckin(record, model.CheckinSubmission{
		UserID:          "alice",
		DurationMins:    45,
		ChaptersCovered: []string{"c1"},
		QuestionsDone:   10,
		MockDone:        false,
	}, day("2024-01-10"))

	assert.Equal(t, 1, record.StreakDays)
	require.NotNil(t, record.LastCheckin)
	assert.Equal(t, "2024-01-10", *record.LastCheckin)
	require.Len(t, record.CheckIns, 1)
	assert.Equal(t, "2024-01-10", record.CheckIns[0].Date)
	assert.Equal(t, 0.75, record.Milestones.TotalHours)
	assert.Equal(t, 10, record.Milestones.TotalQuestions)
	assert.Equal(t, []string{"c1"}, record.Milestones.ChaptersCompleted)
	assert.Equal(t, 0, record.Milestones.MockExamsDone)
	assert.Equal(t, 1, record.Milestones.TotalSessions)
}

func TestApplyCheckin_StreakProgression(t *testing.T) {
	record := model.NewUserRecord("alice")

	ApplyCheckin(record, model.CheckinSubmission{
		UserID: "alice", DurationMins: 45, ChaptersCovered: []string{"c1"}, QuestionsDone: 10,
	}, day("2024-01-10"))

	ApplyCheckin(record, model.CheckinSubmission{
		UserID: "alice", DurationMins: 30, ChaptersCovered: []string{"c1", "c2"}, QuestionsDone: 5, MockDone: true,
	}, day("2024-01-11"))

	assert.Equal(t, 2, record.StreakDays)
	assert.Equal(t, 1.25, record.Milestones.TotalHours)
	assert.Equal(t, 15, record.Milestones.TotalQuestions)
	assert.Equal(t, []string{"c1", "c2"}, record.Milestones.ChaptersCompleted)
	assert.Equal(t, 1, record.Milestones.MockExamsDone)
	assert.Equal(t, 2, record.Milestones.TotalSessions)

	// 中断两天后重置
	ApplyCheckin(record, model.CheckinSubmission{UserID: "alice", DurationMins: 60}, day("2024-01-14"))

	assert.Equal(t, 1, record.StreakDays)
	assert.Equal(t, "2024-01-14", *record.LastCheckin)
	assert.Equal(t, 3, record.Milestones.TotalSessions)
	assert.InDelta(t, 2.25, record.Milestones.TotalHours, 1e-9)
}

func TestApplyCheckin_SameDayKeepsStreak(t *testing.T) {
	record := model.NewUserRecord("bob")
	today := day("2024-03-01")

	ApplyCheckin(record, model.CheckinSubmission{UserID: "bob", DurationMins: 30}, today.AddDate(0, 0, -1))
	ApplyCheckin(record, model.CheckinSubmission{UserID: "bob", DurationMins: 30}, today)
	require.Equal(t, 2, record.StreakDays)

	ApplyCheckin(record, model.CheckinSubmission{UserID: "bob", DurationMins: 30, QuestionsDone: 3}, today)

	assert.Equal(t, 2, record.StreakDays)
	assert.Len(t, record.CheckIns, 3)
	assert.Equal(t, 3, record.Milestones.TotalSessions)
	assert.Equal(t, 3, record.Milestones.TotalQuestions)
	assert.Equal(t, 1.5, record.Milestones.TotalHours)
}

func TestApplyCheckin_MonthBoundary(t *testing.T) {
	record := model.NewUserRecord("carol")
	ApplyCheckin(record, model.CheckinSubmission{UserID: "carol"}, day("2024-02-29"))
	ApplyCheckin(record, model.CheckinSubmission{UserID: "carol"}, day("2024-03-01"))

	assert.Equal(t, 2, record.StreakDays)
}

func TestApplyCheckin_HoursRoundedPerIncrement(t *testing.T) {
	tests := []struct {
		mins int
		want float64
	}{
		{0, 0},
		{1, 0.02},
		{20, 0.33},
		{45, 0.75},
		{50, 0.83},
		{90, 1.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_mins", tt.mins), func(t *testing.T) {
			assert.Equal(t, tt.want, roundHours(tt.mins))
		})
	}

	// 三次 20 分钟 = 0.33 * 3，而不是 1.0
	record := model.NewUserRecord("dave")
	for i := 0; i < 3; i++ {
		ApplyCheckin(record, model.CheckinSubmission{UserID: "dave", DurationMins: 20}, day("2024-01-01"))
	}
	assert.InDelta(t, 0.99, record.Milestones.TotalHours, 1e-9)
}

func TestApplyCheckin_ChaptersFirstSeenOrder(t *testing.T) {
	record := model.NewUserRecord("erin")
	ApplyCheckin(record, model.CheckinSubmission{UserID: "erin", ChaptersCovered: []string{"b", "a", "b"}}, day("2024-01-01"))
	ApplyCheckin(record, model.CheckinSubmission{UserID: "erin", ChaptersCovered: []string{"c", "a"}}, day("2024-01-02"))

	assert.Equal(t, []string{"b", "a", "c"}, record.Milestones.ChaptersCompleted)
	// 单次打卡的章节原样保存
	assert.Equal(t, []string{"b", "a", "b"}, record.CheckIns[0].ChaptersCovered)
}

func TestApplyCheckin_DoesNotAliasSubmission(t *testing.T) {
	record := model.NewUserRecord("fay")
	chapters := []string{"x"}
	ApplyCheckin(record, model.CheckinSubmission{UserID: "fay", ChaptersCovered: chapters}, day("2024-01-01"))

	chapters[0] = "mutated"
	assert.Equal(t, []string{"x"}, record.CheckIns[0].ChaptersCovered)
	assert.Equal(t, []string{"x"}, record.Milestones.ChaptersCompleted)
}

func TestCalendar_TodayInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// UTC 16:30 在 UTC+8 已是第二天
	cal := NewCalendar(func() time.Time {
		return time.Date(2024, 5, 1, 16, 30, 0, 0, time.UTC)
	}, loc)

	assert.Equal(t, "2024-05-02", cal.Today().Format(util.DateFormat))
}

func TestCheckinService_CreatesRecordOnFirstCheckin(t *testing.T) {
	repo := newTestRepo(t)
	cal, _ := newTestCalendar(day("2024-01-10"))
	svc := NewCheckinService(repo, lock.NewKeyedMutex(), cal)
	ctx := context.Background()

	result, err := svc.Checkin(ctx, model.CheckinSubmission{
		UserID:          "alice",
		DurationMins:    45,
		ChaptersCovered: []string{"c1"},
		QuestionsDone:   10,
		Notes:           strPtr("good session"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Check-in successful.", result.Message)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, 0.75, result.Milestones.TotalHours)

	stored, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored.CheckIns, 1)
	require.NotNil(t, stored.CheckIns[0].Notes)
	assert.Equal(t, "good session", *stored.CheckIns[0].Notes)
	assert.Equal(t, "2024-01-10", *stored.LastCheckin)
}

func TestCheckinService_StreakAcrossDays(t *testing.T) {
	repo := newTestRepo(t)
	cal, clock := newTestCalendar(day("2024-01-10"))
	svc := NewCheckinService(repo, lock.NewKeyedMutex(), cal)
	ctx := context.Background()

	_, err := svc.Checkin(ctx, model.CheckinSubmission{UserID: "alice", DurationMins: 45, QuestionsDone: 10})
	require.NoError(t, err)

	clock.AddDays(1)
	result, err := svc.Checkin(ctx, model.CheckinSubmission{UserID: "alice", DurationMins: 30, MockDone: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.StreakDays)
	assert.Equal(t, 1, result.Milestones.MockExamsDone)

	clock.AddDays(3)
	result, err = svc.Checkin(ctx, model.CheckinSubmission{UserID: "alice", DurationMins: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, 3, result.Milestones.TotalSessions)
}

func TestCheckinService_RejectsInvalidUserID(t *testing.T) {
	cal, _ := newTestCalendar(day("2024-01-10"))
	svc := NewCheckinService(newTestRepo(t), lock.NewKeyedMutex(), cal)

	_, err := svc.Checkin(context.Background(), model.CheckinSubmission{UserID: "../etc/passwd"})
	assert.ErrorIs(t, err, util.ErrInvalidUserID)

	_, err = svc.Checkin(context.Background(), model.CheckinSubmission{UserID: "  "})
	assert.ErrorIs(t, err, util.ErrMissingUserID)
}

func TestCheckinService_ConcurrentCheckinsAreNotLost(t *testing.T) {
	repo := newTestRepo(t)
	cal, _ := newTestCalendar(day("2024-01-10"))
	svc := NewCheckinService(repo, lock.NewKeyedMutex(), cal)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkin(ctx, model.CheckinSubmission{UserID: "alice", DurationMins: 30, QuestionsDone: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, record.CheckIns, n)
	assert.Equal(t, n, record.Milestones.TotalSessions)
	assert.Equal(t, n, record.Milestones.TotalQuestions)
	assert.Equal(t, 1, record.StreakDays)
}
