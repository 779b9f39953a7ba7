// Package logger 初始化全局 logrus 日志
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// 日志格式
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Init 根据配置设置 logrus 的级别和输出格式
// 参数:
//   - level: debug/info/warn/error，非法值回退到 info
//   - format: json/text
func Init(level, format string) {
	InitWithOutput(level, format, os.Stdout)
}

// InitWithOutput 与 Init 相同，但允许指定输出目标（测试中使用）
func InitWithOutput(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if strings.ToLower(format) == FormatText {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	logrus.SetOutput(out)
}
