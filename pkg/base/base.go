// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package base 提供被其他多个package依赖的基础内容，自身不依赖其他业务package
package base

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
)

var startTime string

var readableTimeLayout = "2006-01-02 15:04:05.999 Z0700 MST"

// ReadableNowTime 当前时间，可读字符串形式
func ReadableNowTime() string {
	return time.Now().Format(readableTimeLayout)
}

func ParseReadableTime(t string) (time.Time, error) {
	return time.Parse(readableTimeLayout, t)
}

// StartTime 进程启动时间，格式见 ReadableNowTime
func StartTime() string {
	return startTime
}

func GetWd() string {
	dir, _ := os.Getwd()
	return dir
}

func LogoutStartInfo() {
	nazalog.Infof("     start: %s", startTime)
	nazalog.Infof("        wd: %s", GetWd())
	nazalog.Infof("      args: %s", strings.Join(os.Args, " "))
	nazalog.Infof("   bininfo: %s", bininfo.StringifySingleLine())
	nazalog.Infof("   version: %s", LalcodecFullInfo)
	nazalog.Infof("    github: %s", LalcodecGithubSite)
}

// WrapReadConfigFile
//
// @param theConfigFile:      命令行中指定的配置文件，为空时依次尝试 defaultConfigFiles
// @param hookBeforeExit:     找不到配置文件退出进程前的回调，可以为nil
//
func WrapReadConfigFile(theConfigFile string, defaultConfigFiles []string, hookBeforeExit func()) []byte {
	// 如果没有指定配置文件，则尝试从默认路径找配置文件
	if theConfigFile == "" {
		nazalog.Warnf("config file did not specify in the command line, try to load it in the usual path.")
		for _, dcf := range defaultConfigFiles {
			fi, err := os.Stat(dcf)
			if err == nil && fi.Size() > 0 && !fi.IsDir() {
				nazalog.Warnf("%s exist. using it as config file.", dcf)
				theConfigFile = dcf
				break
			} else {
				nazalog.Warnf("%s not exist.", dcf)
			}
		}

		// 如果默认路径也没有配置文件，则退出
		if theConfigFile == "" {
			flag.Usage()
			if hookBeforeExit != nil {
				hookBeforeExit()
			}
			Exitf("no config file found.")
		}
	}

	rawContent, err := os.ReadFile(theConfigFile)
	if err != nil {
		Exitf("read conf file failed. file=%s err=%+v", theConfigFile, err)
	}
	return rawContent
}

func init() {
	startTime = ReadableNowTime()
}
