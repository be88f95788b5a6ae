package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReportAccessWithLoggerContext 记录访问日志：
// - biz_code == 0: INFO
// - biz_code 1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportSysErrorWithLoggerContext 记录技术错误日志：ERROR、err_type=sys，附带错误码/上下文/栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if err == nil || l == nil {
		return
	}
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	msg := fmt.Sprintf("%s, error:%s", action, meta.Error)
	if meta.Msg != "" {
		msg = fmt.Sprintf("%s, msg:%s", msg, meta.Msg)
	}
	l.WithContext(ctx).Error(msg, base...)
}
