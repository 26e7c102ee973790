package controller

import (
	"net/http"
	"study_tracker/internal/model"
	"study_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	ReminderService *service.ReminderService
}

func NewReminderController(reminderService *service.ReminderService) *ReminderController {
	return &ReminderController{ReminderService: reminderService}
}

// Trigger godoc
// @Summary 触发提醒
// @Description 事件入口：生成激励短句和学习摘要，开启通知时推送。返回 {message, summary, date, notification_id} 或 {error}
// @Tags 提醒
// @Accept json
// @Produce json
// @Param event body model.ReminderEvent true "事件"
// @Success 200 {object} model.ReminderEnvelope
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /events/reminder [post]
func (c *ReminderController) Trigger(ctx *gin.Context) {
	var event model.ReminderEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: " + err.Error()})
		return
	}

	resp := c.ReminderService.HandleEvent(ctx.Request.Context(), event)
	ctx.Data(resp.StatusCode, "application/json; charset=utf-8", []byte(resp.Body))
}
