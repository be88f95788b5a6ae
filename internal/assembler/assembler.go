package assembler

import (
	"context"

	"InjectContainer/internal/constant"
	"InjectContainer/internal/inject"
	"InjectContainer/internal/models"
	"InjectContainer/internal/shared/config"
	"InjectContainer/modules/kit/logx"
)

var (
	SharedResourceKey = inject.NewKey[*models.SharedResource]("shared_resource")
	IdentityProbeKey  = inject.NewKey[*models.IdentityProbe]("identity_probe")
)

// Assemble 按配置组装容器：SharedResource 的作用域由 cfg.SharedScope 决定，
// IdentityProbe 每次解析都重新构造，两个参数都来自 SharedResource 绑定。
func Assemble(cfg config.InjectConfig, log logx.Logger) (*inject.Container, error) {
	c := inject.New(log)
	name := cfg.SharedName
	err := inject.Provide(c, SharedResourceKey, cfg.SharedScope, func(context.Context, *inject.Container) (*models.SharedResource, error) {
		return models.NewSharedResource(name), nil
	})
	if err != nil {
		return nil, err
	}
	err = inject.Provide2(c, IdentityProbeKey, inject.ScopePrototype,
		SharedResourceKey, SharedResourceKey, models.IdentityProbeConstructor)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Report 是一次探测的结果。
type Report struct {
	Scope  inject.Scope           `json:"scope"`
	Same   bool                   `json:"same"`
	Status constant.ExecuteStatus `json:"status"`
	Label  string                 `json:"label"`
}

// Probe 从容器解析一个 IdentityProbe 并报告两个注入参数是否为同一实例。
// 解析失败时 Status 为 Failure，同时返回错误。
func Probe(ctx context.Context, c *inject.Container) (Report, error) {
	scope, _ := c.ScopeOf(SharedResourceKey.Name())
	r := Report{Scope: scope}
	p, err := inject.Resolve(ctx, c, IdentityProbeKey)
	r.Status = constant.StatusOf(err == nil)
	r.Label = r.Status.Description()
	if err != nil {
		return r, err
	}
	r.Same = p.IsSame()
	return r, nil
}
