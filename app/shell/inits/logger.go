package inits

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger 网关日志只能写文件：标准输出和标准错误都属于 git 协议流。
// 没配日志路径时返回 Nop logger 。
func Logger(logPath string) (*zap.Logger, error) {
	if logPath == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}
