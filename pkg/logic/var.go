// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

var calcSessionStatIntervalSec uint32 = 5

// debugDumpMaxNum 日志级别为debug时，每个session的音频，视频，metadata各自最多dump的个数
var debugDumpMaxNum = 8
