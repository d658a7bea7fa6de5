// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"encoding/json"
	"fmt"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/nazajson"
	"github.com/q191201771/naza/pkg/nazalog"
)

const (
	defaultHttpApiAddr = ":8083"
	defaultLogFilename = "./logs/lalcodec.log"
)

type Config struct {
	ConfVersion   string               `json:"conf_version"`
	CodecConfig   CodecConfig          `json:"codec"`
	AppConfigs    map[string]AppConfig `json:"apps"`
	HttpApiConfig HttpApiConfig        `json:"http_api"`
	PprofConfig   PprofConfig          `json:"pprof"`
	LogConfig     nazalog.Option       `json:"log"`
}

// CodecConfig 服务级别的配置
type CodecConfig struct {
	Meta string `json:"meta"` // off, on, copy

	// IdleTimeoutSec 超过该时间没有收到数据的session会被关闭，为0时不检查
	IdleTimeoutSec uint32 `json:"idle_timeout_sec"`
}

// AppConfig app级别的配置，没有设置的字段使用 CodecConfig 中的值
type AppConfig struct {
	Meta string `json:"meta"`
}

type HttpApiConfig struct {
	Enable bool   `json:"enable"`
	Addr   string `json:"addr"`
}

// PprofConfig 开启后在http api的端口上注册 /debug/pprof
type PprofConfig struct {
	Enable bool `json:"enable"`
}

// LoadConf
//
// 字段不存在时使用默认值，存在但值非法时返回错误
//
func LoadConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, fmt.Errorf("%w. unmarshal failed. err=%+v", base.ErrConfig, err)
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, fmt.Errorf("%w. unmarshal failed. err=%+v", base.ErrConfig, err)
	}

	if config.ConfVersion != "" && config.ConfVersion != base.ConfVersion {
		nazalog.Warnf("config version invalid. conf version of lalcodec=%s, conf version of config file=%s",
			base.ConfVersion, config.ConfVersion)
	}

	if !j.Exist("codec.meta") {
		config.CodecConfig.Meta = string(base.DefaultMetaMode)
	}
	if _, err = base.ParseMetaMode(config.CodecConfig.Meta); err != nil {
		return nil, fmt.Errorf("%w: %w. codec.meta=%s", base.ErrConfig, err, config.CodecConfig.Meta)
	}
	for name, app := range config.AppConfigs {
		if app.Meta == "" {
			continue
		}
		if _, err = base.ParseMetaMode(app.Meta); err != nil {
			return nil, fmt.Errorf("%w: %w. apps.%s.meta=%s", base.ErrConfig, err, name, app.Meta)
		}
	}

	if !j.Exist("http_api.addr") {
		config.HttpApiConfig.Addr = defaultHttpApiAddr
	}

	if !j.Exist("log.level") {
		config.LogConfig.Level = nazalog.LevelDebug
	}
	if !j.Exist("log.filename") {
		config.LogConfig.Filename = defaultLogFilename
	}
	if !j.Exist("log.is_to_stdout") {
		config.LogConfig.IsToStdout = true
	}
	if !j.Exist("log.is_rotate_daily") {
		config.LogConfig.IsRotateDaily = true
	}
	if !j.Exist("log.short_file_flag") {
		config.LogConfig.ShortFileFlag = true
	}

	return &config, nil
}

// LoadConfAndInitLog 读取配置并初始化全局日志
func LoadConfAndInitLog(rawContent []byte) (*Config, error) {
	config, err := LoadConf(rawContent)
	if err != nil {
		return nil, err
	}
	if err = nazalog.Init(func(option *nazalog.Option) {
		*option = config.LogConfig
	}); err != nil {
		return nil, fmt.Errorf("%w. init log failed. err=%+v", base.ErrConfig, err)
	}
	nazalog.Infof("load conf succ. config=%+v", config)
	return config, nil
}

// MetaModeOf app没有配置时继承服务级别的配置
func (c *Config) MetaModeOf(appName string) base.MetaMode {
	if app, ok := c.AppConfigs[appName]; ok && app.Meta != "" {
		if m, err := base.ParseMetaMode(app.Meta); err == nil {
			return m
		}
	}
	if m, err := base.ParseMetaMode(c.CodecConfig.Meta); err == nil {
		return m
	}
	return base.DefaultMetaMode
}
