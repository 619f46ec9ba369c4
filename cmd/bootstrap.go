package cmd

import (
	"os"

	"github.com/haierkeys/fast-file-share-service/pkg/logger"

	"go.uber.org/zap"
)

// bootstrapLogger 主日志器初始化之前使用的控制台日志器，DEBUG 环境变量打开调试级别
var bootstrapLogger *zap.Logger

func init() {
	level := "info"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}

	lg, err := logger.NewLogger(logger.Config{Level: level})
	if err != nil {
		lg = zap.NewExample()
	}
	bootstrapLogger = lg
}
