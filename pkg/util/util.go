// Package util 密码哈希、令牌摘要和 user_id 解析
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt 哈希，使用默认成本
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 校验明文密码与 bcrypt 哈希是否匹配
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken 计算 Token 的 SHA256 哈希值
// 黑名单只保存哈希，不保存原始 Token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ParseUserID 宽松地解析用户 ID
// 接受整数、浮点数和十进制数字字符串，只有正整数才有效
// 字符串按十进制解析，"010" 为 10，"0x10"、"1_000" 无效
// 参数:
//   - raw: 请求中的原始值（JSON 解码结果、查询参数等）
//
// 返回:
//   - int64: 用户 ID
//   - bool: 是否有效
func ParseUserID(raw interface{}) (int64, bool) {
	var (
		id  int64
		err error
	)
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case string:
		id, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case json.Number:
		id, err = strconv.ParseInt(v.String(), 10, 64)
	default:
		id, err = cast.ToInt64E(raw)
	}
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
