// Package config 管理 CLI 客户端配置
// 配置保存在 ~/.pocket-assistant/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultServerURL 默认服务器地址
const DefaultServerURL = "http://localhost:8000"

// Config CLI 配置结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	URL string `mapstructure:"url"` // HTTP API 地址
}

// AuthConfig 登录凭证
type AuthConfig struct {
	AccessToken  string `mapstructure:"access_token"`  // 访问 Token（REST 与 WS 共用）
	RefreshToken string `mapstructure:"refresh_token"` // 刷新 Token
	Username     string `mapstructure:"username"`      // 登录的用户名
}

var (
	v   *viper.Viper
	cfg *Config
)

// Init 在用户主目录下初始化配置
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("获取用户目录失败: %w", err)
	}
	return InitAt(filepath.Join(home, ".pocket-assistant"))
}

// InitAt 在指定目录下初始化配置，目录不存在时创建
func InitAt(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	v = viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	v.SetConfigType("yaml")

	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("auth.access_token", "")
	v.SetDefault("auth.refresh_token", "")
	v.SetDefault("auth.username", "")

	if err := v.ReadInConfig(); err != nil {
		// 首次运行，写入默认配置
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("读取配置失败: %w", err)
			}
		}
		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("写入配置失败: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}
	return nil
}

// Get 获取配置
func Get() *Config {
	return cfg
}

// SaveAuth 保存登录凭证
func SaveAuth(username, accessToken, refreshToken string) error {
	v.Set("auth.username", username)
	v.Set("auth.access_token", accessToken)
	v.Set("auth.refresh_token", refreshToken)
	cfg.Auth = AuthConfig{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     username,
	}
	return v.WriteConfig()
}

// ClearAuth 清除本地凭证
func ClearAuth() error {
	return SaveAuth("", "", "")
}

// GetAccessToken 获取访问 Token
func GetAccessToken() string {
	if cfg == nil {
		return ""
	}
	return cfg.Auth.AccessToken
}

// GetUsername 获取登录的用户名
func GetUsername() string {
	if cfg == nil {
		return ""
	}
	return cfg.Auth.Username
}

// GetServerURL 获取服务器地址
func GetServerURL() string {
	if cfg == nil || cfg.Server.URL == "" {
		return DefaultServerURL
	}
	return cfg.Server.URL
}

// SetServerURL 设置本次运行使用的服务器地址，不写入配置文件
func SetServerURL(url string) {
	url = strings.TrimRight(url, "/")
	v.Set("server.url", url)
	if cfg != nil {
		cfg.Server.URL = url
	}
}

// IsLoggedIn 检查是否已登录
func IsLoggedIn() bool {
	return GetAccessToken() != ""
}
