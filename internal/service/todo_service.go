package service

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/model"
	"pocket-assistant/internal/repository"
)

// 待办相关错误
var (
	ErrTodoNotFound  = errors.New("待办不存在或无权限")
	ErrRemindInPast  = errors.New("提醒时间已经过去了")
	ErrEmptyTodoText = errors.New("待办内容不能为空")
)

// todoTimeLayout 待办时间的展示格式
const todoTimeLayout = "2006-01-02 15:04:05"

// remindLayouts 可接受的提醒时间格式，按顺序尝试
var remindLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	todoTimeLayout,
	"2006-01-02 15:04",
}

// TodoService 待办服务
type TodoService struct {
	todoRepo *repository.TodoRepository
	loc      *time.Location
	now      func() time.Time
}

// NewTodoService 创建 TodoService 实例
// 参数:
//   - todoRepo: 待办数据访问层
//   - loc: 解析不带时区的提醒时间、展示创建时间使用的时区
func NewTodoService(todoRepo *repository.TodoRepository, loc *time.Location) *TodoService {
	return &TodoService{todoRepo: todoRepo, loc: loc, now: time.Now}
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	Content  string `json:"content" binding:"required"` // 待办内容
	RemindAt string `json:"remind_at"`                  // 提醒时间，可选
}

// TodoView 待办的展示结构
type TodoView struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	Time      string  `json:"time"`      // 创建时间
	RemindAt  *string `json:"remind_at"` // RFC3339，未设置时为 null
	Completed bool    `json:"completed"`
	UserID    int64   `json:"user_id"`
}

func (s *TodoService) view(t *model.Todo) TodoView {
	v := TodoView{
		ID:        t.ID,
		Content:   t.Title,
		Time:      t.CreatedAt.In(s.loc).Format(todoTimeLayout),
		Completed: t.Completed,
		UserID:    t.UserID,
	}
	if t.RemindAt != nil {
		r := t.RemindAt.In(s.loc).Format(time.RFC3339)
		v.RemindAt = &r
	}
	return v
}

// parseRemindAt 解析提醒时间
// 无法解析时返回 nil，调用方按未设置提醒处理
func (s *TodoService) parseRemindAt(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range remindLayouts {
		if t, err := time.ParseInLocation(layout, raw, s.loc); err == nil {
			return &t
		}
	}
	log.WithField("remind_at", raw).Warn("unparsable remind_at dropped")
	return nil
}

// Create 创建待办
// 参数:
//   - ctx: 上下文
//   - userID: 所属用户
//   - req: 创建请求
//
// 返回:
//   - *TodoView: 创建后的待办
//   - error: 提醒时间已过去时返回 ErrRemindInPast
func (s *TodoService) Create(ctx context.Context, userID int64, req *CreateTodoRequest) (*TodoView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyTodoText
	}

	remindAt := s.parseRemindAt(req.RemindAt)
	if remindAt != nil && remindAt.Before(s.now()) {
		return nil, ErrRemindInPast
	}

	todo := &model.Todo{
		Title:    content,
		RemindAt: remindAt,
		UserID:   userID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	v := s.view(todo)
	return &v, nil
}

// List 获取用户的待办列表
func (s *TodoService) List(ctx context.Context, userID int64) ([]TodoView, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]TodoView, 0, len(todos))
	for i := range todos {
		views = append(views, s.view(&todos[i]))
	}
	return views, nil
}

// SetCompleted 标记待办完成状态
func (s *TodoService) SetCompleted(ctx context.Context, userID, id int64, completed bool) (*TodoView, error) {
	todo, err := s.todoRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	if err := s.todoRepo.SetCompleted(ctx, id, completed); err != nil {
		return nil, err
	}
	todo.Completed = completed
	v := s.view(todo)
	return &v, nil
}

// Delete 删除待办
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.todoRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
