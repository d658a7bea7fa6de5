// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

//go:build linux || darwin || netbsd || freebsd || openbsd || dragonfly
// +build linux darwin netbsd freebsd openbsd dragonfly

package base

import (
	"context"
	"os"
	"syscall"
)

// RunSignalHandler 收到SIGINT，SIGTERM，SIGUSR1，SIGUSR2信号时回调cb，ctx结束时直接返回
func RunSignalHandler(ctx context.Context, cb func()) {
	runSignalHandler(ctx, cb, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
}
