package service

import (
	"fmt"
	"strings"
	"study_tracker/internal/model"
	"study_tracker/internal/util"
)

// BuildSummary 生成摘要视图，recent_check_ins 为最近三条，最新在前
func BuildSummary(record *model.UserRecord) *model.SummaryView {
	n := len(record.CheckIns)
	limit := util.RecentCheckinsLimit
	if n < limit {
		limit = n
	}

	recent := make([]model.CheckInEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		recent = append(recent, record.CheckIns[i])
	}

	chapters := make([]string, len(record.Milestones.ChaptersCompleted))
	copy(chapters, record.Milestones.ChaptersCompleted)
	milestones := record.Milestones
	milestones.ChaptersCompleted = chapters

	return &model.SummaryView{
		UserID:         record.UserID,
		StreakDays:     record.StreakDays,
		LastCheckin:    record.LastCheckin,
		Milestones:     milestones,
		RecentCheckIns: recent,
	}
}

// FormatDigest 可读的文本摘要，用于提醒消息和通知正文
func FormatDigest(view *model.SummaryView) string {
	last := "never"
	if view.LastCheckin != nil {
		last = *view.LastCheckin
	}

	chapters := "none"
	if len(view.Milestones.ChaptersCompleted) > 0 {
		chapters = strings.Join(view.Milestones.ChaptersCompleted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Study summary for %s\n", view.UserID)
	fmt.Fprintf(&b, "Streak: %d day(s)\n", view.StreakDays)
	fmt.Fprintf(&b, "Last check-in: %s\n", last)
	fmt.Fprintf(&b, "Total hours: %.2f\n", view.Milestones.TotalHours)
	fmt.Fprintf(&b, "Total questions: %d\n", view.Milestones.TotalQuestions)
	fmt.Fprintf(&b, "Chapters completed: %s\n", chapters)
	fmt.Fprintf(&b, "Mock exams done: %d\n", view.Milestones.MockExamsDone)
	fmt.Fprintf(&b, "Total sessions: %d", view.Milestones.TotalSessions)
	return b.String()
}
