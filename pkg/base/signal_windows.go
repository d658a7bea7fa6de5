// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

//go:build windows
// +build windows

package base

import (
	"context"
	"os"
)

func RunSignalHandler(ctx context.Context, cb func()) {
	runSignalHandler(ctx, cb, os.Interrupt)
}
