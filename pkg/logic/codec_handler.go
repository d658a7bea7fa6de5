// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"encoding/hex"
	"strings"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/codec"
	"github.com/q191201771/lalcodec/pkg/h2645"
	"github.com/q191201771/lalcodec/pkg/rtmp"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazalog"
)

// CodecHandler 将输入流的rtmp message分发给对应session的编码参数上下文
type CodecHandler struct {
	sm *SessionManager
}

func NewCodecHandler(sm *SessionManager) *CodecHandler {
	return &CodecHandler{
		sm: sm,
	}
}

// OnMsg
//
// 音频、视频、metadata之外的message直接忽略
//
// @param msg: 函数调用结束后，内部不持有 msg.Payload 内存块
//
func (h *CodecHandler) OnMsg(sessionId string, appName string, msg base.RtmpMsg) error {
	s := h.sm.GetOrCreate(sessionId, appName)
	s.stat.AddReadBytes(len(msg.Payload))

	switch msg.Header.MsgTypeId {
	case base.RtmpTypeIdAudio:
		s.audioMsgCount.Increment()
		h.dump(s, msg)
		s.ctx.OnAudio(msg)
	case base.RtmpTypeIdVideo:
		s.videoMsgCount.Increment()
		h.dump(s, msg)
		s.ctx.OnVideo(msg)
	case base.RtmpTypeIdMetadata:
		if !rtmp.IsMetadata(msg.Payload) {
			nazalog.Debugf("[%s] not metadata, ignore. len=%d", sessionId, len(msg.Payload))
			return nil
		}
		s.metadataMsgCount.Increment()
		h.dump(s, msg)
		if err := s.ctx.OnMetadata(msg); err != nil {
			nazalog.Warnf("[%s] handle metadata failed. err=%+v", sessionId, err)
			return err
		}
	}
	return nil
}

// OnDisconnect 输入流断开
func (h *CodecHandler) OnDisconnect(sessionId string) {
	if err := h.sm.Remove(sessionId); err != nil {
		nazalog.Warnf("[%s] disconnect failed. err=%+v", sessionId, err)
	}
}

func (h *CodecHandler) dump(s *CodecSession, msg base.RtmpMsg) {
	if !s.msgDump.ShouldDump(msg.Header.MsgTypeId) {
		return
	}
	state := s.ctx.State()
	kind := codec.Classify(msg.Header.MsgTypeId, msg.Payload, state.VideoCodecId, state.NalLengthSize)
	s.msgDump.Outf("msg. type=%d, ts=%d, len=%d, kind=%s, nalus=%s, hex=%s",
		msg.Header.MsgTypeId, msg.Header.TimestampAbs, len(msg.Payload), kind,
		NaluSummary(msg, state), hex.Dump(nazabytes.Prefix(msg.Payload, base.HexDumpMaxLength)))
}

// NaluSummary 视频帧中各nalu的类型，比如 "SPS,PPS,IDR"
//
// 非h264/h265的视频帧以及seq header返回空字符串，nalu长度字段非法时追加 invalid
//
func NaluSummary(msg base.RtmpMsg, state codec.State) string {
	if msg.Header.MsgTypeId != base.RtmpTypeIdVideo || len(msg.Payload) < 5 || msg.Payload[1] == 0 {
		return ""
	}
	var isH264 bool
	switch uint8(state.VideoCodecId) {
	case base.RtmpCodecIdAvc:
		isH264 = true
	case base.RtmpCodecIdHevc:
		isH264 = false
	default:
		return ""
	}

	var types []string
	err := h2645.IterateNaluAvcc(msg.Payload[5:], state.NalLengthSize, func(nal []byte) {
		types = append(types, h2645.ParseNaluTypeReadable(isH264, nal[0]))
	})
	if err != nil {
		types = append(types, "invalid")
	}
	return strings.Join(types, ",")
}
