package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/database"
	"pocket-assistant/internal/extract"
	"pocket-assistant/internal/intent"
	"pocket-assistant/internal/llm"
	"pocket-assistant/internal/repository"
	"pocket-assistant/internal/service"
	"pocket-assistant/internal/timenlp"
	"pocket-assistant/internal/workflow"
	"pocket-assistant/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type staticNews string

func (s staticNews) Digest(context.Context) string { return string(s) }

// APISuite 基于内存数据库和桩大模型的接口测试
type APISuite struct {
	suite.Suite
	router *gin.Engine
	traits *service.TraitService
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	s.Require().NoError(err)

	loc := time.FixedZone("CST", 8*3600)
	tokenCache := cache.NewMemoryCache()
	jwtService := jwt.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour)
	gateway := llm.GatewayFunc(func(context.Context, string) (string, error) {
		return "", &llm.GatewayError{Provider: "stub", Err: errors.New("offline")}
	})

	s.traits = service.NewTraitService(repository.NewProfileRepository(db))
	assistant := workflow.NewAssistant(workflow.Deps{
		Classifier: intent.NewClassifier(intent.DefaultRules(gateway)...),
		Gateway:    gateway,
		Extractor:  extract.NewProfileExtractor(gateway),
		Traits:     s.traits,
		News:       staticNews("未找到相关新闻"),
		Times:      timenlp.NewNormalizer(loc),
	})

	userRepo := repository.NewUserRepository(db)
	h := Handlers{
		Auth:         NewAuthHandler(service.NewAuthService(userRepo, tokenCache, jwtService)),
		User:         NewUserHandler(service.NewUserService(userRepo)),
		Chat:         NewChatHandler(service.NewChatService(assistant, 1)),
		Todo:         NewTodoHandler(service.NewTodoService(repository.NewTodoRepository(db), loc), 1),
		Stash:        NewStashHandler(service.NewStashService(repository.NewStashRepository(db))),
		Profile:      NewProfileHandler(s.traits, 1),
		Subscription: NewSubscriptionHandler(service.NewSubscriptionService(repository.NewSubscriptionRepository(db)), 1),
	}

	s.router = gin.New()
	RegisterRoutes(s.router, h, jwtService, tokenCache)
}

func (s *APISuite) do(method, path string, body interface{}, token string) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *APISuite) login(username string) string {
	code, _ := s.do(http.MethodPost, "/api/v1/auth/register", gin.H{"username": username, "password": "secret123"}, "")
	s.Require().Equal(http.StatusOK, code)
	code, env := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": "secret123"}, "")
	s.Require().Equal(http.StatusOK, code)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func (s *APISuite) TestChatDefaultIdentity() {
	code, env := s.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "陈总喜欢喝酒", "user_id": "oops"}, "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"answer":"已记录：陈总喜欢喝酒"}`, string(env.Data))

	profile, err := s.traits.Lookup(context.Background(), 1, "陈总")
	s.Require().NoError(err)
	s.Require().NotNil(profile)

	_, env = s.do(http.MethodPost, "/api/v1/chat", gin.H{"text": "陈总喜欢喝酒", "user_id": 1}, "")
	s.JSONEq(`{"answer":"陈总的喜欢喝酒信息已存在"}`, string(env.Data))
}

func (s *APISuite) TestChatUsesTokenIdentity() {
	token := s.login("alice")

	_, env := s.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "张三讨厌加班", "user_id": 5}, token)
	s.JSONEq(`{"answer":"已记录：张三讨厌加班"}`, string(env.Data))

	missing, err := s.traits.Lookup(context.Background(), 5, "张三")
	s.Require().NoError(err)
	s.Nil(missing)

	// alice 是第一个注册的用户
	owned, err := s.traits.Lookup(context.Background(), 1, "张三")
	s.Require().NoError(err)
	s.NotNil(owned)
}

func (s *APISuite) TestChatRejectsEmptyMessage() {
	code, _ := s.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "  "}, "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *APISuite) TestChatNewsAndChatFallback() {
	_, env := s.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "看看新闻"}, "")
	s.JSONEq(`{"answer":"未找到相关新闻"}`, string(env.Data))

	_, env = s.do(http.MethodPost, "/api/v1/chat", gin.H{"message": "你好"}, "")
	s.JSONEq(fmt.Sprintf(`{"answer":%q}`, llm.NoReply), string(env.Data))
}

func (s *APISuite) TestAuthFlow() {
	token := s.login("bob")

	code, env := s.do(http.MethodGet, "/api/v1/users/me", nil, token)
	s.Equal(http.StatusOK, code)
	s.Contains(string(env.Data), `"username":"bob"`)

	code, _ = s.do(http.MethodPost, "/api/v1/auth/register", gin.H{"username": "bob", "password": "secret123"}, "")
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"username": "bob", "password": "wrong-pass"}, "")
	s.Equal(http.StatusUnauthorized, code)

	code, env = s.do(http.MethodGet, "/api/v1/users", nil, "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`[{"id":1,"username":"bob"}]`, string(env.Data))

	code, _ = s.do(http.MethodPost, "/api/v1/auth/logout", nil, token)
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/users/me", nil, token)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *APISuite) TestTodos() {
	code, env := s.do(http.MethodPost, "/api/v1/todos", gin.H{"content": "交报告", "remind_at": "2000-01-01 09:00:00", "user_id": 3}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("提醒时间已经过去了", env.Message)

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	code, env = s.do(http.MethodPost, "/api/v1/todos", gin.H{"content": "交报告", "remind_at": future, "user_id": 3}, "")
	s.Require().Equal(http.StatusCreated, code)

	var todo service.TodoView
	s.Require().NoError(json.Unmarshal(env.Data, &todo))
	s.Equal("交报告", todo.Content)
	s.NotNil(todo.RemindAt)

	code, env = s.do(http.MethodGet, "/api/v1/todos?user_id=3", nil, "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(env.Data), "交报告")

	path := fmt.Sprintf("/api/v1/todos/%d", todo.ID)
	code, env = s.do(http.MethodPatch, path, gin.H{"completed": true, "user_id": 3}, "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(env.Data), `"completed":true`)

	code, _ = s.do(http.MethodDelete, path+"?user_id=4", nil, "")
	s.Equal(http.StatusNotFound, code)
	code, _ = s.do(http.MethodDelete, path+"?user_id=3", nil, "")
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, "/api/v1/todos/abc", nil, "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *APISuite) TestProfiles() {
	code, env := s.do(http.MethodPost, "/api/v1/profiles", gin.H{"name": "李四", "traits": "喜欢唱歌", "user_id": 2}, "")
	s.Require().Equal(http.StatusOK, code)
	var created struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))

	_, env = s.do(http.MethodPost, "/api/v1/profiles", gin.H{"name": "李四", "traits": "讨厌熬夜", "user_id": 2}, "")
	s.Contains(string(env.Data), "喜欢唱歌, 讨厌熬夜")

	_, env = s.do(http.MethodGet, "/api/v1/profiles/lookup?user_id=2&name="+url.QueryEscape("李四"), nil, "")
	s.Contains(string(env.Data), `"result":"李四：喜欢唱歌, 讨厌熬夜"`)

	_, env = s.do(http.MethodGet, "/api/v1/profiles/lookup?user_id=5&name="+url.QueryEscape("李四"), nil, "")
	s.JSONEq(`{"result":"未找到李四的画像信息。"}`, string(env.Data))

	path := fmt.Sprintf("/api/v1/profiles/%d", created.ID)
	code, env = s.do(http.MethodPut, path, gin.H{"name": "李四", "traits": "喜欢跳舞", "user_id": 2}, "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(env.Data), `"traits":"喜欢跳舞"`)

	code, _ = s.do(http.MethodPut, path, gin.H{"name": "李四", "traits": "x", "user_id": 9}, "")
	s.Equal(http.StatusNotFound, code)

	_, env = s.do(http.MethodGet, "/api/v1/profiles?user_id=2", nil, "")
	s.True(strings.HasPrefix(string(env.Data), "["))

	code, _ = s.do(http.MethodDelete, path+"?user_id=2", nil, "")
	s.Equal(http.StatusOK, code)
}

func (s *APISuite) TestStashAndSubscriptions() {
	code, env := s.do(http.MethodPost, "/api/v1/stash", gin.H{"title": "好文章", "type": "video"}, "")
	s.Require().Equal(http.StatusCreated, code)
	s.Contains(string(env.Data), `"type":"video"`)

	code, _ = s.do(http.MethodPost, "/api/v1/stash", gin.H{"title": "坏类型", "type": "podcast"}, "")
	s.Equal(http.StatusBadRequest, code)

	_, env = s.do(http.MethodGet, "/api/v1/stash?type=article", nil, "")
	s.JSONEq(`[]`, string(env.Data))

	code, _ = s.do(http.MethodDelete, "/api/v1/stash/999", nil, "")
	s.Equal(http.StatusNotFound, code)

	_, env = s.do(http.MethodPost, "/api/v1/subscriptions", gin.H{"category": "health", "user_id": 1}, "")
	s.JSONEq(`{"msg":"订阅成功"}`, string(env.Data))
	_, env = s.do(http.MethodPost, "/api/v1/subscriptions", gin.H{"category": "health", "user_id": 1}, "")
	s.JSONEq(`{"msg":"已订阅"}`, string(env.Data))
	_, env = s.do(http.MethodGet, "/api/v1/subscriptions?user_id=1", nil, "")
	s.JSONEq(`["health"]`, string(env.Data))
	_, env = s.do(http.MethodPost, "/api/v1/subscriptions/cancel", gin.H{"category": "health", "user_id": 1}, "")
	s.JSONEq(`{"msg":"已取消订阅"}`, string(env.Data))
	_, env = s.do(http.MethodPost, "/api/v1/subscriptions/cancel", gin.H{"category": "health", "user_id": 1}, "")
	s.JSONEq(`{"msg":"未订阅"}`, string(env.Data))
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, want := range map[string]bool{"12": true, "0": false, "-1": false, "x": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := pathID(c)
		require.Equal(t, want, ok, raw)
	}
}
