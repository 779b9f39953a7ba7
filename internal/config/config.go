// Package config 负责加载和管理应用程序的配置
// 使用 viper 库支持 YAML 配置文件和环境变量覆盖
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 是应用程序的根配置结构
// 包含所有子配置模块
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig  `mapstructure:"database"`  // 数据库配置
	Redis     RedisConfig     `mapstructure:"redis"`     // Redis 配置
	JWT       JWTConfig       `mapstructure:"jwt"`       // JWT 配置
	Log       LogConfig       `mapstructure:"log"`       // 日志配置
	AI        AIConfig        `mapstructure:"ai"`        // 大模型网关配置
	News      NewsConfig      `mapstructure:"news"`      // 新闻抓取配置
	Assistant AssistantConfig `mapstructure:"assistant"` // 助手行为配置
}

// ServerConfig 服务器相关配置
type ServerConfig struct {
	Port int      `mapstructure:"port"` // 监听端口，默认 8000
	Mode string   `mapstructure:"mode"` // 运行模式: debug / release
	CORS []string `mapstructure:"cors"` // CORS 允许的域名
}

// DatabaseConfig 数据库连接配置
// Driver 为 mysql 时使用 MySQL 连接参数，为 sqlite 时使用 SQLitePath
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`         // mysql / sqlite
	Host         string `mapstructure:"host"`           // 数据库主机地址
	Port         int    `mapstructure:"port"`           // 数据库端口
	Username     string `mapstructure:"username"`       // 数据库用户名
	Password     string `mapstructure:"password"`       // 数据库密码
	Database     string `mapstructure:"database"`       // 数据库名称
	Charset      string `mapstructure:"charset"`        // 字符集
	SQLitePath   string `mapstructure:"sqlite_path"`    // SQLite 文件路径
	MaxIdleConns int    `mapstructure:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int    `mapstructure:"max_open_conns"` // 最大打开连接数
	MaxLifetime  int    `mapstructure:"max_lifetime"`   // 连接最大生命周期（秒）
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`   // 关闭时使用进程内缓存
	Host     string `mapstructure:"host"`      // Redis 主机地址
	Port     int    `mapstructure:"port"`      // Redis 端口
	Username string `mapstructure:"username"`  // Redis 用户名
	Password string `mapstructure:"password"`  // Redis 密码
	DB       int    `mapstructure:"db"`        // 数据库索引 (0-15)
	PoolSize int    `mapstructure:"pool_size"` // 连接池大小
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`         // JWT 签名密钥，至少32字符
	AccessExpire  time.Duration `mapstructure:"access_expire"`  // Access Token 过期时间
	RefreshExpire time.Duration `mapstructure:"refresh_expire"` // Refresh Token 过期时间
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug/info/warn/error
	Format string `mapstructure:"format"` // 日志格式: json/text
}

// AIConfig 大模型网关配置
type AIConfig struct {
	Provider string        `mapstructure:"provider"` // openai（兼容接口）/ dashscope
	BaseURL  string        `mapstructure:"base_url"` // 接口地址
	APIKey   string        `mapstructure:"api_key"`  // API Key
	Model    string        `mapstructure:"model"`    // 模型名称
	Timeout  time.Duration `mapstructure:"timeout"`  // 单次调用超时
}

// NewsConfig 新闻抓取配置
type NewsConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`    // 单个站点请求超时
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`  // 新闻结果缓存时间，0 表示不缓存
	UserAgent string        `mapstructure:"user_agent"` // 抓取时使用的 User-Agent
}

// AssistantConfig 助手行为配置
type AssistantConfig struct {
	DefaultUserID int64  `mapstructure:"default_user_id"` // user_id 缺失或非法时使用的默认用户
	Timezone      string `mapstructure:"timezone"`        // 解析提醒时间使用的时区
}

// Location 返回助手使用的时区，配置非法时回退到东八区
func (c AssistantConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*3600)
}

// Load 从指定路径加载配置文件
// 支持环境变量覆盖配置项
// 参数:
//   - configPath: 配置文件目录路径 (如 "./configs")
//
// 返回:
//   - *Config: 配置对象
//   - error: 如果加载失败则返回错误
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 将环境变量中的 _ 映射到配置的 .
	// 例如: DATABASE_HOST -> database.host
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVariables(v)
	setDefaults(v)

	// 配置文件不存在时继续使用默认值和环境变量
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnvVariables 绑定环境变量到配置项
func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "MYSQL_HOST")
	v.BindEnv("database.port", "MYSQL_PORT")
	v.BindEnv("database.username", "MYSQL_USERNAME")
	v.BindEnv("database.password", "MYSQL_PASSWORD")
	v.BindEnv("database.database", "MYSQL_DATABASE")
	v.BindEnv("database.sqlite_path", "SQLITE_PATH")

	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.username", "REDIS_USERNAME")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("jwt.secret", "JWT_SECRET")

	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")
}

// setDefaults 设置配置项的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors", []string{"*"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "pocket_assistant")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.sqlite_path", "pocket_assistant.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_lifetime", 3600)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)

	v.SetDefault("jwt.access_expire", "24h")
	v.SetDefault("jwt.refresh_expire", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.base_url", "https://open.bigmodel.cn/api/paas/v4")
	v.SetDefault("ai.model", "glm-4-plus")
	v.SetDefault("ai.timeout", "30s")

	v.SetDefault("news.timeout", "10s")
	v.SetDefault("news.cache_ttl", "10m")
	v.SetDefault("news.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	v.SetDefault("assistant.default_user_id", 1)
	v.SetDefault("assistant.timezone", "Asia/Shanghai")
}
