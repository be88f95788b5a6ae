package config

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"InjectContainer/internal/inject"
	"InjectContainer/modules/kit/logx"
)

const defaultConfigRelPath = "configs/conf.yml"

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Inject     InjectConfig     `yaml:"inject" mapstructure:"inject"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// InjectConfig 决定组装时 SharedResource 的作用域。
type InjectConfig struct {
	SharedScope inject.Scope `yaml:"shared_scope" mapstructure:"shared_scope"`
	SharedName  string       `yaml:"shared_name" mapstructure:"shared_name"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

var (
	current   atomic.Pointer[Config]
	listeners struct {
		sync.Mutex
		next uint64
		fns  map[uint64]func(Config)
		ids  []uint64 // 注册顺序
	}
	reloadLog atomic.Pointer[logx.Logger]
)

// SetLogger 设置热更新过程使用的 logger，传 nil 恢复为丢弃输出。
func SetLogger(l logx.Logger) {
	if l == nil {
		l = logx.Nop()
	}
	reloadLog.Store(&l)
}

func logger() logx.Logger {
	if l := reloadLog.Load(); l != nil {
		return *l
	}
	return logx.Nop()
}

// Current 返回最近一次加载成功的配置；未加载时返回零值。
func Current() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return Config{}
}

// OnChange 注册配置热更新回调，回调拿到的是新配置的副本。返回值用于注销回调。
func OnChange(fn func(Config)) (cancel func()) {
	listeners.Lock()
	defer listeners.Unlock()
	if listeners.fns == nil {
		listeners.fns = make(map[uint64]func(Config))
	}
	listeners.next++
	id := listeners.next
	listeners.fns[id] = fn
	listeners.ids = append(listeners.ids, id)
	return func() {
		listeners.Lock()
		defer listeners.Unlock()
		delete(listeners.fns, id)
		listeners.ids = slices.DeleteFunc(listeners.ids, func(x uint64) bool { return x == id })
	}
}

func publish(c Config) {
	current.Store(&c)
	listeners.Lock()
	fns := make([]func(Config), 0, len(listeners.ids))
	for _, id := range listeners.ids {
		fns = append(fns, listeners.fns[id])
	}
	listeners.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Load 加载配置：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string) {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	path := cfgName
	switch {
	case cfgName == "":
		path = findConfigUpward(curDir)
	case !filepath.IsAbs(cfgName):
		path = filepath.Join(curDir, cfgName)
	}
	if err := load(path, true); err != nil {
		panic(err)
	}
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
