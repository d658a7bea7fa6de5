// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"context"
	"os"
	"os/signal"

	"github.com/q191201771/naza/pkg/nazalog"
)

func runSignalHandler(ctx context.Context, cb func(), sigs ...os.Signal) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, sigs...)
	defer signal.Stop(c)

	select {
	case s := <-c:
		nazalog.Infof("recv signal. s=%+v", s)
		cb()
	case <-ctx.Done():
	}
}
