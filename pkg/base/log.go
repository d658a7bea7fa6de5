// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"fmt"

	"github.com/q191201771/naza/pkg/nazalog"
)

// MsgDump 一个session收到的message的调试日志
//
// 日志级别为trace时全部输出；为debug时，音频，视频，metadata各自最多输出 debugMaxNum 条；更高级别时不输出。
// 只能由处理该session的协程调用。
//
type MsgDump struct {
	log         nazalog.Logger
	sessionId   string
	debugMaxNum int

	counts map[uint8]int // key为message type id
}

// NewMsgDump
//
// @param sessionId:   输出日志时作为前缀
// @param debugMaxNum: 日志级别为debug时，每种message最多输出的条数
//
func NewMsgDump(log nazalog.Logger, sessionId string, debugMaxNum int) MsgDump {
	return MsgDump{
		log:         log,
		sessionId:   sessionId,
		debugMaxNum: debugMaxNum,
		counts:      make(map[uint8]int),
	}
}

func (md *MsgDump) ShouldDump(typeId uint8) bool {
	switch md.log.GetOption().Level {
	case nazalog.LevelTrace:
		return true
	case nazalog.LevelDebug:
		if md.counts[typeId] >= md.debugMaxNum {
			return false
		}
		md.counts[typeId]++
		return true
	}
	return false
}

// Outf 调用之前需调用 ShouldDump ，避免不输出时构造hex.Dump之类实参的开销
func (md *MsgDump) Outf(format string, v ...interface{}) {
	md.log.Out(md.log.GetOption().Level, 3, fmt.Sprintf("[%s] ", md.sessionId)+fmt.Sprintf(format, v...))
}
