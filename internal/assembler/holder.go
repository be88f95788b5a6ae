package assembler

import (
	"context"
	"sync/atomic"

	"InjectContainer/internal/inject"
	"InjectContainer/internal/shared/config"
	"InjectContainer/modules/kit/errx"
	"InjectContainer/modules/kit/logx"

	"go.uber.org/zap"
)

// Holder 持有当前容器，配置变更时整体替换。
type Holder struct {
	cur atomic.Pointer[inject.Container]
	log logx.Logger
}

func NewHolder(cfg config.InjectConfig, log logx.Logger) (*Holder, error) {
	if log == nil {
		log = logx.Nop()
	}
	h := &Holder{log: log}
	if err := h.Reload(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload 重新组装容器；失败时保留旧容器。
func (h *Holder) Reload(cfg config.InjectConfig) error {
	c, err := Assemble(cfg, h.log)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(context.Background(), h.log, "assemble", err)
		return err
	}
	h.cur.Store(c)
	h.log.Info("container assembled", zap.Stringer("shared_scope", cfg.SharedScope), zap.Strings("keys", c.Keys()))
	return nil
}

func (h *Holder) Container() *inject.Container {
	return h.cur.Load()
}

func (h *Holder) Probe(ctx context.Context) (Report, error) {
	c := h.Container()
	if c == nil {
		return Report{}, errx.ErrUnavailable.WithData("reason", "container not assembled")
	}
	return Probe(ctx, c)
}
