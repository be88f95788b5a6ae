package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"InjectContainer/internal/inject"
	"InjectContainer/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return p
}

func TestReadFile_解析作用域(t *testing.T) {
	p := writeConf(t, `
log:
  level: debug
inject:
  shared_scope: prototype
httpserver:
  port: 9090
`)
	c, err := ReadFile(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if c.Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望 shared_scope=prototype, got=%v", c.Inject.SharedScope)
	}
	if c.Log.Level != "debug" || c.HTTPServer.Port != 9090 {
		t.Fatalf("期望读取 log/httpserver, got=%+v", c)
	}
	if c.Inject.SharedName != "shme" || c.HTTPServer.Host != "0.0.0.0" {
		t.Fatalf("期望缺省值生效, got=%+v", c)
	}
}

func TestReadFile_缺省为单例(t *testing.T) {
	c, err := ReadFile(writeConf(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if c.Inject.SharedScope != inject.ScopeSingleton {
		t.Fatalf("期望缺省 singleton, got=%v", c.Inject.SharedScope)
	}
}

func TestReadFile_环境变量优先(t *testing.T) {
	t.Setenv("INJECT_INJECT_SHARED_SCOPE", "prototype")
	c, err := ReadFile(writeConf(t, "inject:\n  shared_scope: singleton\n"))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if c.Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望环境变量覆盖文件, got=%v", c.Inject.SharedScope)
	}
}

func TestReadFile_非法作用域(t *testing.T) {
	if _, err := ReadFile(writeConf(t, "inject:\n  shared_scope: request\n")); err == nil {
		t.Fatalf("期望非法作用域解码失败")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("期望文件不存在时报错")
	}
}

// rewriteConf 先写临时文件再 rename，避免监听方读到截断的内容。
func rewriteConf(t *testing.T, path, body string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename conf: %v", err)
	}
}

func TestLoad_发布并通知监听者(t *testing.T) {
	var got []Config
	t.Cleanup(OnChange(func(c Config) { got = append(got, c) }))

	if err := load(writeConf(t, "inject:\n  shared_scope: prototype\n"), false); err != nil {
		t.Fatalf("err=%v", err)
	}
	if Current().Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望 Current 返回最新配置, got=%+v", Current())
	}
	if len(got) != 1 || got[0].Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望监听者收到一次通知, got=%v", got)
	}
}

func TestOnChange_注销后不再通知(t *testing.T) {
	calls := 0
	cancel := OnChange(func(Config) { calls++ })
	publish(Config{})
	cancel()
	publish(Config{})
	if calls != 1 {
		t.Fatalf("期望注销后不再收到通知, calls=%d", calls)
	}
}

func TestLoad_热更新切换作用域(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	SetLogger(logx.NewZapLogger(zap.New(core)))
	t.Cleanup(func() { SetLogger(nil) })

	p := writeConf(t, "inject:\n  shared_scope: singleton\n")
	if err := load(p, true); err != nil {
		t.Fatalf("err=%v", err)
	}
	if Current().Inject.SharedScope != inject.ScopeSingleton {
		t.Fatalf("期望初始为 singleton, got=%v", Current().Inject.SharedScope)
	}

	changed := make(chan Config, 8)
	t.Cleanup(OnChange(func(c Config) {
		select {
		case changed <- c:
		default:
		}
	}))

	rewriteConf(t, p, "inject:\n  shared_scope: prototype\n")
	select {
	case c := <-changed:
		if c.Inject.SharedScope != inject.ScopePrototype {
			t.Fatalf("期望监听者收到 prototype, got=%v", c.Inject.SharedScope)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("等待配置热更新超时")
	}
	if Current().Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望 Current 切换为 prototype, got=%v", Current().Inject.SharedScope)
	}

	// 非法作用域解码失败，保留上一份配置
	rewriteConf(t, p, "inject:\n  shared_scope: request\n")
	deadline := time.Now().Add(5 * time.Second)
	for observed.FilterMessageSnippet("unmarshal change config data failed").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("等待解码失败日志超时, logs=%v", observed.All())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if Current().Inject.SharedScope != inject.ScopePrototype {
		t.Fatalf("期望解码失败时保留旧配置, got=%v", Current().Inject.SharedScope)
	}
	for len(changed) > 0 {
		if c := <-changed; c.Inject.SharedScope != inject.ScopePrototype {
			t.Fatalf("期望解码失败时不通知新配置, got=%v", c.Inject.SharedScope)
		}
	}
	if observed.FilterMessage("配置文件变更").Len() < 2 {
		t.Fatalf("期望每次变更都记录日志, logs=%v", observed.All())
	}
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, defaultConfigRelPath)
	if err := os.WriteFile(want, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findConfigUpward(nested); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
