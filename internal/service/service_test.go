package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/database"
	"pocket-assistant/internal/extract"
	"pocket-assistant/internal/intent"
	"pocket-assistant/internal/llm"
	"pocket-assistant/internal/repository"
	"pocket-assistant/internal/timenlp"
	"pocket-assistant/internal/workflow"
	"pocket-assistant/pkg/jwt"
	"pocket-assistant/pkg/util"
)

var cst = time.FixedZone("CST", 8*3600)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return db
}

func TestTraitServiceMergeAccumulatesInOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewTraitService(repository.NewProfileRepository(newTestDB(t)))

	added, err := svc.Merge(ctx, 1, "陈总", "喜欢喝酒")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Merge(ctx, 1, "陈总", "讨厌跑步")
	require.NoError(t, err)
	assert.True(t, added)

	profile, err := svc.Lookup(ctx, 1, "陈总")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "喜欢喝酒, 讨厌跑步", profile.Traits)
}

func TestTraitServiceMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewTraitService(repository.NewProfileRepository(newTestDB(t)))

	for i := 0; i < 3; i++ {
		added, err := svc.Merge(ctx, 1, "陈总", "喜欢喝酒")
		require.NoError(t, err)
		assert.Equal(t, i == 0, added)
	}

	profiles, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "喜欢喝酒", profiles[0].Traits)
}

func TestTraitServiceConcurrentDistinctStatements(t *testing.T) {
	ctx := context.Background()
	svc := NewTraitService(repository.NewProfileRepository(newTestDB(t)))

	traits := []string{"喜欢喝酒", "讨厌跑步", "喜欢钓鱼", "讨厌加班"}
	var wg conc.WaitGroup
	for _, trait := range traits {
		trait := trait
		wg.Go(func() {
			_, err := svc.Merge(ctx, 1, "陈总", trait)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	profile, err := svc.Lookup(ctx, 1, "陈总")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.ElementsMatch(t, traits, []string(profile.TraitSet()))
}

// failCreates 让接下来 n 次 INSERT 在执行前失败
func failCreates(t *testing.T, db *gorm.DB, n int, err error) {
	t.Helper()
	remaining := n
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_create", func(tx *gorm.DB) {
		if remaining > 0 {
			remaining--
			_ = tx.AddError(err)
		}
	}))
}

func TestTraitServiceMergeRetriesDeadlock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewTraitService(repository.NewProfileRepository(db))

	_, err := svc.Merge(ctx, 1, "陈总", "喜欢喝酒")
	require.NoError(t, err)

	failCreates(t, db, 1, &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})

	added, err := svc.Merge(ctx, 1, "陈总", "讨厌跑步")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Merge(ctx, 1, "王总", "喜欢钓鱼")
	require.NoError(t, err)
	assert.True(t, added)

	profile, err := svc.Lookup(ctx, 1, "陈总")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "喜欢喝酒, 讨厌跑步", profile.Traits)
}

func TestTraitServiceMergeGivesUpAfterRepeatedConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewTraitService(repository.NewProfileRepository(db))

	failCreates(t, db, mergeAttempts, gorm.ErrDuplicatedKey)

	_, err := svc.Merge(context.Background(), 1, "陈总", "喜欢喝酒")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// 其他错误不重试
	diskFull := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Replace("test:fail_create", func(tx *gorm.DB) {
		_ = tx.AddError(diskFull)
	}))
	_, err = svc.Merge(context.Background(), 1, "陈总", "喜欢喝酒")
	assert.ErrorIs(t, err, diskFull)
	assert.False(t, retryable(diskFull))
	assert.True(t, retryable(fmt.Errorf("wrap: %w", &mysql.MySQLError{Number: 1213})))
	assert.False(t, retryable(&mysql.MySQLError{Number: 1062}))
}

func TestTraitServiceRejectsEmpty(t *testing.T) {
	svc := NewTraitService(repository.NewProfileRepository(newTestDB(t)))

	_, err := svc.Merge(context.Background(), 1, " ", "喜欢喝酒")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestTraitServiceAddUpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewTraitService(repository.NewProfileRepository(newTestDB(t)))

	profile, err := svc.Add(ctx, 1, &CreateProfileRequest{Name: "张三", Traits: "喜欢钓鱼; 讨厌熬夜"})
	require.NoError(t, err)
	assert.Equal(t, "喜欢钓鱼, 讨厌熬夜", profile.Traits)

	_, err = svc.Add(ctx, 1, &CreateProfileRequest{Name: "李四", Traits: "喜欢唱歌"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, profile.ID, &UpdateProfileTraitsRequest{Name: "张三丰", Traits: "喜欢太极\n喜欢太极"})
	require.NoError(t, err)
	assert.Equal(t, "张三丰", updated.Name)
	assert.Equal(t, "喜欢太极", updated.Traits)

	_, err = svc.Update(ctx, 1, profile.ID, &UpdateProfileTraitsRequest{Name: "李四"})
	assert.ErrorIs(t, err, ErrProfileExists)

	_, err = svc.Update(ctx, 2, profile.ID, &UpdateProfileTraitsRequest{Name: "王五"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, profile.ID), ErrProfileNotFound)
	require.NoError(t, svc.Delete(ctx, 1, profile.ID))

	missing, err := svc.Lookup(ctx, 1, "张三丰")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func newAuthService(t *testing.T) (*AuthService, cache.Cache) {
	t.Helper()
	c := cache.NewMemoryCache()
	jwtSvc := jwt.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour)
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), c, jwtSvc), c
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	reg, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotZero(t, reg.UserID)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret456"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrPasswordWrong)

	_, err = svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	login, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.EqualValues(t, 3600, login.ExpiresIn)
	assert.Equal(t, "alice", login.User.Username)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestAuthServiceLogoutBlacklistsToken(t *testing.T) {
	ctx := context.Background()
	svc, c := newAuthService(t)

	_, err := svc.Register(ctx, &RegisterRequest{Username: "bob", Password: "secret123"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, &LoginRequest{Username: "bob", Password: "secret123"})
	require.NoError(t, err)

	hash := util.HashToken(login.RefreshToken)
	require.NoError(t, svc.Logout(ctx, hash, time.Now().Add(time.Hour)))
	assert.True(t, c.IsTokenBlacklisted(ctx, hash))

	_, err = svc.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	auth := NewAuthService(repository.NewUserRepository(db), cache.NewMemoryCache(),
		jwt.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour, time.Hour))
	svc := NewUserService(repository.NewUserRepository(db))

	alice, err := auth.Register(ctx, &RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	_, err = auth.Register(ctx, &RegisterRequest{Username: "bob", Password: "secret123"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []UserBrief{{ID: alice.UserID, Username: "alice"}, {ID: alice.UserID + 1, Username: "bob"}}, users)

	taken := "bob"
	_, err = svc.UpdateProfile(ctx, alice.UserID, &UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrUserExists)

	renamed := "alicia"
	user, err := svc.UpdateProfile(ctx, alice.UserID, &UpdateProfileRequest{Username: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)

	err = svc.ChangePassword(ctx, alice.UserID, &ChangePasswordRequest{OldPassword: "bad", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrPasswordWrong)
	require.NoError(t, svc.ChangePassword(ctx, alice.UserID, &ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret"}))

	_, err = auth.Login(ctx, &LoginRequest{Username: "alicia", Password: "newsecret"})
	assert.NoError(t, err)

	_, err = svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func newTodoService(t *testing.T, now time.Time) *TodoService {
	t.Helper()
	svc := NewTodoService(repository.NewTodoRepository(newTestDB(t)), cst)
	svc.now = func() time.Time { return now }
	return svc
}

func TestTodoServiceCreate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, cst)
	svc := newTodoService(t, now)

	todo, err := svc.Create(ctx, 1, &CreateTodoRequest{Content: "交报告", RemindAt: "2024-05-16 09:30:00"})
	require.NoError(t, err)
	require.NotNil(t, todo.RemindAt)
	assert.Equal(t, "2024-05-16T09:30:00+08:00", *todo.RemindAt)
	assert.Equal(t, "交报告", todo.Content)

	todo, err = svc.Create(ctx, 1, &CreateTodoRequest{Content: "买菜", RemindAt: "2024-05-16T01:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-16T09:00:00+08:00", *todo.RemindAt)

	// 无法解析的提醒时间被丢弃
	todo, err = svc.Create(ctx, 1, &CreateTodoRequest{Content: "洗车", RemindAt: "明天"})
	require.NoError(t, err)
	assert.Nil(t, todo.RemindAt)

	_, err = svc.Create(ctx, 1, &CreateTodoRequest{Content: "开会", RemindAt: "2024-05-14 09:00:00"})
	assert.ErrorIs(t, err, ErrRemindInPast)
	assert.Equal(t, "提醒时间已经过去了", err.Error())

	_, err = svc.Create(ctx, 1, &CreateTodoRequest{Content: "  "})
	assert.ErrorIs(t, err, ErrEmptyTodoText)
}

func TestTodoServiceListCompleteDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService(t, time.Now())

	first, err := svc.Create(ctx, 1, &CreateTodoRequest{Content: "第一件事"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, &CreateTodoRequest{Content: "第二件事"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, &CreateTodoRequest{Content: "别人的事"})
	require.NoError(t, err)

	todos, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "第二件事", todos[0].Content)

	done, err := svc.SetCompleted(ctx, 1, first.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	_, err = svc.SetCompleted(ctx, 2, first.ID, true)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, first.ID), ErrTodoNotFound)
	require.NoError(t, svc.Delete(ctx, 1, first.ID))

	todos, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestStashService(t *testing.T) {
	ctx := context.Background()
	svc := NewStashService(repository.NewStashRepository(newTestDB(t)))

	article, err := svc.Create(ctx, &CreateStashRequest{Title: "如何写好 Go"})
	require.NoError(t, err)
	assert.Equal(t, "article", article.Type)

	_, err = svc.Create(ctx, &CreateStashRequest{Title: "并发模式讲解", Type: "video"})
	require.NoError(t, err)

	videos, err := svc.List(ctx, "video")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "并发模式讲解", videos[0].Title)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(ctx, article.ID))
	assert.ErrorIs(t, svc.Delete(ctx, article.ID), ErrStashNotFound)
}

func TestSubscriptionService(t *testing.T) {
	ctx := context.Background()
	svc := NewSubscriptionService(repository.NewSubscriptionRepository(newTestDB(t)))

	msg, err := svc.Subscribe(ctx, 1, "health")
	require.NoError(t, err)
	assert.Equal(t, MsgSubscribed, msg)

	msg, err = svc.Subscribe(ctx, 1, "health")
	require.NoError(t, err)
	assert.Equal(t, MsgAlreadySubscribe, msg)

	_, err = svc.Subscribe(ctx, 1, "")
	assert.ErrorIs(t, err, ErrEmptyCategory)

	categories, err := svc.Categories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"health"}, categories)

	msg, err = svc.Unsubscribe(ctx, 1, "health")
	require.NoError(t, err)
	assert.Equal(t, MsgUnsubscribed, msg)

	msg, err = svc.Unsubscribe(ctx, 1, "health")
	require.NoError(t, err)
	assert.Equal(t, MsgNotSubscribed, msg)

	categories, err = svc.Categories(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

// offlineGateway 模拟不可用的大模型
var offlineGateway = llm.GatewayFunc(func(context.Context, string) (string, error) {
	return "", &llm.GatewayError{Provider: "stub", Err: errors.New("offline")}
})

type staticNews string

func (s staticNews) Digest(context.Context) string { return string(s) }

func newChatService(t *testing.T) (*ChatService, *TraitService) {
	t.Helper()
	traits := NewTraitService(repository.NewProfileRepository(newTestDB(t)))
	assistant := workflow.NewAssistant(workflow.Deps{
		Classifier: intent.NewClassifier(intent.DefaultRules(offlineGateway)...),
		Gateway:    offlineGateway,
		Extractor:  extract.NewProfileExtractor(offlineGateway),
		Traits:     traits,
		News:       staticNews("【人民网】"),
		Times:      timenlp.NewNormalizer(cst),
	})
	return NewChatService(assistant, 1), traits
}

func TestChatServiceDefaultIdentity(t *testing.T) {
	ctx := context.Background()
	chat, traits := newChatService(t)

	for i, raw := range []interface{}{nil, "abc", -5, true} {
		trait := fmt.Sprintf("喜欢运动%d", i)
		result, err := chat.Route(ctx, "陈总"+trait, raw)
		require.NoError(t, err)
		assert.Equal(t, "已记录：陈总"+trait, result.Answer)
	}

	profile, err := traits.Lookup(ctx, 1, "陈总")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Len(t, profile.TraitSet(), 4)

	_, err = chat.Route(ctx, "陈总喜欢喝茶", "7")
	require.NoError(t, err)
	profile, err = traits.Lookup(ctx, 7, "陈总")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "喜欢喝茶", profile.Traits)
}

func TestChatServiceFallbacks(t *testing.T) {
	ctx := context.Background()
	chat, _ := newChatService(t)

	result, err := chat.Route(ctx, "你好", 1)
	require.NoError(t, err)
	assert.Equal(t, llm.NoReply, result.Answer)
	assert.Nil(t, result.RemindAt)

	result, err = chat.Route(ctx, "今天有什么新闻", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Answer, "【人民网】"))
}
