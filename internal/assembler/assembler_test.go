package assembler

import (
	"context"
	"errors"
	"testing"

	"InjectContainer/internal/constant"
	"InjectContainer/internal/inject"
	"InjectContainer/internal/shared/config"
	"InjectContainer/modules/kit/errx"
)

func TestProbe_单例作用域得到同一实例(t *testing.T) {
	c, err := Assemble(config.InjectConfig{SharedScope: inject.ScopeSingleton, SharedName: "shme"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	r, err := Probe(context.Background(), c)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !r.Same || r.Status != constant.Success || r.Label != "成功" || r.Scope != inject.ScopeSingleton {
		t.Fatalf("期望单例下 is_same=true, got=%+v", r)
	}
}

func TestProbe_原型作用域得到不同实例(t *testing.T) {
	c, err := Assemble(config.InjectConfig{SharedScope: inject.ScopePrototype, SharedName: "shme"}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	r, err := Probe(context.Background(), c)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if r.Same || r.Status != constant.Success {
		t.Fatalf("期望原型下 is_same=false, got=%+v", r)
	}
	// 两个参数字段相同，但身份不同
	p := inject.MustResolve(context.Background(), c, IdentityProbeKey)
	if p.IsSame() {
		t.Fatalf("期望每次解析都注入两个不同实例")
	}
}

func TestProbe_解析失败返回失败状态(t *testing.T) {
	c := inject.New(nil)
	r, err := Probe(context.Background(), c)
	if !errors.Is(err, inject.ErrBindingNotFound) {
		t.Fatalf("期望未绑定错误, got=%v", err)
	}
	if r.Status != constant.Failure || r.Label != "失败" {
		t.Fatalf("期望失败状态, got=%+v", r)
	}
}

func TestAssemble_非法作用域(t *testing.T) {
	if _, err := Assemble(config.InjectConfig{SharedScope: inject.Scope(5)}, nil); !errors.Is(err, inject.ErrInvalidScope) {
		t.Fatalf("期望非法作用域错误, got=%v", err)
	}
}

func TestHolder_重载切换作用域(t *testing.T) {
	h, err := NewHolder(config.InjectConfig{SharedScope: inject.ScopeSingleton}, nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if r, _ := h.Probe(context.Background()); !r.Same {
		t.Fatalf("期望初始为单例, got=%+v", r)
	}

	if err := h.Reload(config.InjectConfig{SharedScope: inject.ScopePrototype}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if r, _ := h.Probe(context.Background()); r.Same || r.Scope != inject.ScopePrototype {
		t.Fatalf("期望重载后为原型, got=%+v", r)
	}

	before := h.Container()
	if err := h.Reload(config.InjectConfig{SharedScope: inject.Scope(9)}); err == nil {
		t.Fatalf("期望非法配置重载失败")
	}
	if h.Container() != before {
		t.Fatalf("期望重载失败时保留旧容器")
	}
}

func TestHolder_未组装(t *testing.T) {
	var h Holder
	if _, err := h.Probe(context.Background()); !errors.Is(err, errx.ErrUnavailable) {
		t.Fatalf("期望未组装时返回不可用, got=%v", err)
	}
}
