package controller

import (
	"fmt"
	"study_tracker/internal/service"
	"study_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 处理用户注册、列表和摘要
type UserController struct {
	UserService *service.UserService
}

// NewUserController 创建一个新的用户控制器实例
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// Register godoc
// @Summary 注册用户
// @Description 为 user_id 创建一份空白学习档案，已存在时返回 409
// @Tags 用户
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "参数错误"
// @Failure 409 {object} util.Response "用户已存在"
// @Router /register/{user_id} [post]
func (c *UserController) Register(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	if _, err := c.UserService.Register(ctx.Request.Context(), userID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"message": fmt.Sprintf("User %s registered successfully.", userID)})
}

// ListUsers godoc
// @Summary 用户列表
// @Description 返回所有已知的 user_id
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	ids, err := c.UserService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, ids)
}

// GetSummary godoc
// @Summary 学习摘要
// @Description 连续天数、累计统计以及最近三次打卡（最新在前）
// @Tags 用户
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} util.Response{data=model.SummaryView}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /summary/{user_id} [get]
func (c *UserController) GetSummary(ctx *gin.Context) {
	summary, err := c.UserService.GetSummary(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
