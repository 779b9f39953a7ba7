package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
)

// TodoHandler 待办请求处理器
type TodoHandler struct {
	todoService   *service.TodoService
	defaultUserID int64
}

// NewTodoHandler 创建 TodoHandler 实例
func NewTodoHandler(todoService *service.TodoService, defaultUserID int64) *TodoHandler {
	return &TodoHandler{todoService: todoService, defaultUserID: defaultUserID}
}

// createTodoBody 创建待办的请求体，user_id 接受数字或数字字符串
type createTodoBody struct {
	service.CreateTodoRequest
	UserID interface{} `json:"user_id"`
}

// updateTodoBody 修改待办完成状态的请求体
type updateTodoBody struct {
	Completed *bool       `json:"completed" binding:"required"`
	UserID    interface{} `json:"user_id"`
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body createTodoBody true "待办内容和可选的提醒时间"
// @Success 201 {object} response.Response{data=service.TodoView}
// @Router /api/v1/todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var body createTodoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	userID := requestUserID(c, body.UserID, h.defaultUserID)
	todo, err := h.todoService.Create(c.Request.Context(), userID, &body.CreateTodoRequest)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRemindInPast):
			response.BadRequestWithCode(c, response.CodeRemindInPast, err.Error())
		case errors.Is(err, service.ErrEmptyTodoText):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "创建待办失败")
		}
		return
	}

	response.Created(c, todo)
}

// List 获取待办列表
// @Summary 获取待办列表
// @Tags 待办
// @Produce json
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response{data=[]service.TodoView}
// @Router /api/v1/todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.todoService.List(c.Request.Context(), queryUserID(c, h.defaultUserID))
	if err != nil {
		response.InternalError(c, "获取待办失败")
		return
	}
	response.Success(c, todos)
}

// SetCompleted 修改待办完成状态
// @Summary 修改待办完成状态
// @Tags 待办
// @Accept json
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} response.Response{data=service.TodoView}
// @Router /api/v1/todos/{id} [patch]
func (h *TodoHandler) SetCompleted(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "无效的待办ID")
		return
	}
	var body updateTodoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	userID := requestUserID(c, body.UserID, h.defaultUserID)
	todo, err := h.todoService.SetCompleted(c.Request.Context(), userID, id, *body.Completed)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, todo)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Param id path int true "待办ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "无效的待办ID")
		return
	}
	if err := h.todoService.Delete(c.Request.Context(), queryUserID(c, h.defaultUserID), id); err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", gin.H{"ok": true})
}

func (h *TodoHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTodoNotFound) {
		response.NotFoundWithCode(c, response.CodeTodoNotFound, err.Error())
		return
	}
	response.InternalError(c, "操作待办失败")
}
