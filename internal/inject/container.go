package inject

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"InjectContainer/internal/constant"
	"InjectContainer/modules/kit/errx"
	"InjectContainer/modules/kit/logx"

	"go.uber.org/zap"
)

// Key 是带类型的绑定标识，Resolve 时据此还原具体类型。
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) Name() string {
	return k.name
}

// Factory 构造一个实例，可以通过 c 继续解析自身依赖（必须透传 ctx）。
type Factory[T any] func(ctx context.Context, c *Container) (T, error)

// Ctor2 标记一个由容器注入两个参数的构造函数。
type Ctor2[A, B, T any] func(A, B) T

type binding struct {
	name    string
	scope   Scope
	factory func(ctx context.Context, c *Container) (any, error)

	// 以下字段由 Container.flightMu 保护
	built    bool
	instance any
	owner    uint64        // 正在构造的解析链，0 表示空闲
	done     chan struct{} // 本轮构造结束时关闭
}

// Container 保存绑定并按作用域解析实例，可并发使用。
type Container struct {
	mu       sync.RWMutex
	bindings map[string]*binding
	log      logx.Logger

	chains   atomic.Uint64
	flightMu sync.Mutex
	waiting  map[uint64]*binding // 解析链 -> 它正在等待的单例
}

func New(log logx.Logger) *Container {
	if log == nil {
		log = logx.Nop()
	}
	return &Container{
		bindings: make(map[string]*binding),
		log:      log,
		waiting:  make(map[uint64]*binding),
	}
}

// Provide 注册一个工厂绑定。同名绑定重复注册返回 ErrBindingDuplicate。
func Provide[T any](c *Container, key Key[T], scope Scope, factory Factory[T]) error {
	if factory == nil {
		return errx.ErrReqParamERR.WithData("key", key.name).WithData("factory", "nil")
	}
	return c.register(key.name, scope, func(ctx context.Context, c *Container) (any, error) {
		v, err := factory(ctx, c)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Provide2 注册一个两参构造函数，参数在解析时分别按 a、b 从容器取得。
func Provide2[A, B, T any](c *Container, key Key[T], scope Scope, a Key[A], b Key[B], ctor Ctor2[A, B, T]) error {
	if ctor == nil {
		return errx.ErrReqParamERR.WithData("key", key.name).WithData("ctor", "nil")
	}
	return Provide(c, key, scope, func(ctx context.Context, c *Container) (T, error) {
		var zero T
		av, err := Resolve(ctx, c, a)
		if err != nil {
			return zero, err
		}
		bv, err := Resolve(ctx, c, b)
		if err != nil {
			return zero, err
		}
		return ctor(av, bv), nil
	})
}

// Instance 把一个已经构造好的值注册为单例。
func Instance[T any](c *Container, key Key[T], v T) error {
	return Provide(c, key, ScopeSingleton, func(context.Context, *Container) (T, error) {
		return v, nil
	})
}

// Resolve 按 key 解析实例。
func Resolve[T any](ctx context.Context, c *Container, key Key[T]) (T, error) {
	var zero T
	v, err := c.resolve(ctx, key.name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, ErrTypeMismatch.WithData("key", key.name)
	}
	return t, nil
}

// MustResolve 解析失败直接 panic，只在组装阶段使用。
func MustResolve[T any](ctx context.Context, c *Container, key Key[T]) T {
	v, err := Resolve(ctx, c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Has 报告是否存在名为 name 的绑定。
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[name]
	return ok
}

// ScopeOf 返回绑定的作用域。
func (c *Container) ScopeOf(name string) (Scope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[name]
	if !ok {
		return ScopeSingleton, false
	}
	return b.scope, true
}

// Keys 返回全部绑定名（已排序）。
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (c *Container) register(name string, scope Scope, factory func(context.Context, *Container) (any, error)) error {
	if name == "" {
		return errx.ErrReqParamERR.WithData("key", name)
	}
	if !scope.Valid() {
		return ErrInvalidScope.WithData("key", name).WithData("scope", int(scope))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.bindings[name]; ok {
		return ErrBindingDuplicate.WithData("key", name)
	}
	c.bindings[name] = &binding{name: name, scope: scope, factory: factory}
	c.log.Debug("inject bind", zap.String("key", name), zap.Stringer("scope", scope))
	return nil
}

func (c *Container) resolve(ctx context.Context, name string) (v any, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.RLock()
	b, ok := c.bindings[name]
	c.mu.RUnlock()
	if !ok {
		err = ErrBindingNotFound.WithData("key", name)
		c.report(ctx, name, "", err)
		return nil, err
	}

	tr := trailFrom(ctx)
	if tr.chain == 0 {
		tr.chain = c.chains.Add(1)
	}
	if slices.Contains(tr.path, name) {
		err = cycleError(tr.path, name)
		c.report(ctx, name, b.scope.String(), err)
		return nil, err
	}
	ctx = withTrail(ctx, tr, name)

	if b.scope == ScopePrototype {
		v, err = b.build(ctx, c)
	} else {
		v, err = b.singleton(ctx, c)
	}
	c.report(ctx, name, b.scope.String(), err)
	return v, err
}

func (b *binding) build(ctx context.Context, c *Container) (any, error) {
	v, err := b.factory(ctx, c)
	if err != nil {
		return nil, ErrFactoryFailed.WithData("key", b.name).WithCause(err)
	}
	return v, nil
}

// singleton 保证同一绑定同时只有一条解析链在构造，构造失败不缓存，下次解析会重试。
// 等待其他链时若形成环（对方也在等待本链持有的绑定）直接返回循环依赖错误。
func (b *binding) singleton(ctx context.Context, c *Container) (any, error) {
	tr := trailFrom(ctx)
	c.flightMu.Lock()
	for !b.built && b.owner != 0 {
		if c.waitsOn(b.owner, tr.chain) {
			c.flightMu.Unlock()
			return nil, cycleError(tr.path[:len(tr.path)-1], b.name)
		}
		done := b.done
		c.waiting[tr.chain] = b
		c.flightMu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			c.flightMu.Lock()
			delete(c.waiting, tr.chain)
			c.flightMu.Unlock()
			return nil, errx.ErrUnavailable.WithData("key", b.name).WithCause(ctx.Err())
		}

		c.flightMu.Lock()
		delete(c.waiting, tr.chain)
	}
	if b.built {
		v := b.instance
		c.flightMu.Unlock()
		return v, nil
	}
	b.owner, b.done = tr.chain, make(chan struct{})
	c.flightMu.Unlock()

	v, err := b.build(ctx, c)

	c.flightMu.Lock()
	if err == nil {
		b.instance, b.built = v, true
	}
	b.owner = 0
	close(b.done)
	c.flightMu.Unlock()
	return v, err
}

// waitsOn 沿等待关系从 owner 出发，判断是否会回到 chain。调用方持有 flightMu。
func (c *Container) waitsOn(owner, chain uint64) bool {
	for range len(c.waiting) + 1 {
		if owner == chain {
			return true
		}
		next, ok := c.waiting[owner]
		if !ok || next.owner == 0 {
			return false
		}
		owner = next.owner
	}
	return false
}

func cycleError(path []string, name string) error {
	return ErrCircularDependency.WithDataMap(map[string]any{
		"key":  name,
		"path": strings.Join(append(slices.Clone(path), name), " -> "),
	})
}

func (c *Container) report(ctx context.Context, name, scope string, err error) {
	status := constant.StatusOf(err == nil)
	fields := []zap.Field{
		zap.String("key", name),
		zap.String("scope", scope),
		zap.Stringer("status", status),
		zap.String("status_desc", status.Description()),
	}
	if err != nil {
		fields = append(fields, zap.String("error_code", string(errx.CodeOf(err))))
	}
	c.log.WithContext(ctx).Debug("inject resolve", fields...)
}

// trail 是一条解析链：chain 标识发起解析的调用，path 是当前的依赖路径。
type trail struct {
	chain uint64
	path  []string
}

type trailKey struct{}

func trailFrom(ctx context.Context) trail {
	tr, _ := ctx.Value(trailKey{}).(trail)
	return tr
}

func withTrail(ctx context.Context, tr trail, name string) context.Context {
	path := make([]string, 0, len(tr.path)+1)
	path = append(path, tr.path...)
	return context.WithValue(ctx, trailKey{}, trail{chain: tr.chain, path: append(path, name)})
}
