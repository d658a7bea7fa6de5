// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"github.com/q191201771/naza/pkg/nazalog"
)

// Exitf 以error级别输出日志，刷盘后以退出码1退出进程
//
// windows下等待按下回车后再退出。
//
// @param format: 为空时不输出日志
//
func Exitf(format string, v ...interface{}) {
	if format != "" {
		// 3: 日志中的文件行号为 Exitf 的调用方
		nazalog.Out(nazalog.LevelError, 3, fmt.Sprintf(format, v...))
	}
	nazalog.Sync()

	if runtime.GOOS == "windows" {
		_, _ = fmt.Fprintf(os.Stderr, "Press Enter to exit...")
		r := bufio.NewReader(os.Stdin)
		_, _ = r.ReadByte()
	}
	os.Exit(1)
}
