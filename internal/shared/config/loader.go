package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "INJECT"

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("inject.shared_scope", "singleton")
	v.SetDefault("inject.shared_name", "shme")
	v.SetDefault("httpserver.host", "0.0.0.0")
	v.SetDefault("httpserver.port", 8080)
	// INJECT_INJECT_SHARED_SCOPE=prototype 这类环境变量优先于文件。
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	return c, err
}

// ReadFile 只读取一次配置，不发布也不监听，便于测试和工具使用。
func ReadFile(configPath string) (Config, error) {
	if !fileExist(configPath) {
		return Config{}, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	return decode(v)
}

func load(configPath string, watch bool) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	c, err := decode(v)
	if err != nil {
		return err
	}
	publish(c)
	if !watch {
		return nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log := logger()
		log.Info("配置文件变更", zap.String("file", e.Name), zap.Stringer("op", e.Op))
		next, err := decode(v)
		if err != nil {
			// 解码失败保留旧配置
			log.Warn("viper unmarshal change config data failed, keep previous", zap.String("file", e.Name), zap.Error(err))
			return
		}
		publish(next)
	})
	v.WatchConfig()
	return nil
}
