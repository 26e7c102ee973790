package model

// SummaryView 用户学习摘要
// swagger:model SummaryView
type SummaryView struct {
	UserID         string             `json:"user_id"`
	StreakDays     int                `json:"streak_days"`
	LastCheckin    *string            `json:"last_checkin"`
	Milestones     MilestoneAggregate `json:"milestones"`
	RecentCheckIns []CheckInEntry     `json:"recent_check_ins"`
}

// CheckinResult 打卡成功后的返回
// swagger:model CheckinResult
type CheckinResult struct {
	Message    string             `json:"message"`
	StreakDays int                `json:"streak_days"`
	Milestones MilestoneAggregate `json:"milestones"`
}

// ReminderEvent 定时/事件触发的提醒输入
type ReminderEvent struct {
	UserID string `json:"user_id"`
}

// ReminderEnvelope 提醒结果
// swagger:model ReminderEnvelope
type ReminderEnvelope struct {
	Message        string `json:"message"`
	Summary        string `json:"summary"`
	Date           string `json:"date"`
	NotificationID string `json:"notification_id,omitempty"`
}
