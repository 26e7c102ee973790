package controller

import (
	"study_tracker/internal/model"
	"study_tracker/internal/service"
	"study_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckinService
}

func NewCheckinController(checkinService *service.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

// Checkin godoc
// @Summary 学习打卡
// @Description 提交今日学习情况，更新连续天数和累计统计；用户不存在时自动创建
// @Tags 打卡
// @Accept json
// @Produce json
// @Param checkin body model.CheckinSubmission true "打卡内容"
// @Success 200 {object} util.Response{data=model.CheckinResult}
// @Failure 400 {object} util.Response "参数错误"
// @Router /checkin [post]
func (c *CheckinController) Checkin(ctx *gin.Context) {
	var req model.CheckinSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CheckinService.Checkin(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
