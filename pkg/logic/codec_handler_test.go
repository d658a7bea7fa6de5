// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic_test

import (
	"bytes"
	"testing"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/codec"
	"github.com/q191201771/lalcodec/pkg/innertest"
	"github.com/q191201771/lalcodec/pkg/logic"
	"github.com/q191201771/lalcodec/pkg/rtmp"
	"github.com/q191201771/naza/pkg/assert"
)

var (
	aacSeqHeader = []byte{0xaf, 0x00, 0x11, 0x90}

	// 176x176
	sps = innertest.BuildSps(innertest.SpsParam{
		ProfileIdc:                  66,
		LevelIdc:                    30,
		NumRefFrames:                1,
		PicWidthInMbsMinusOne:       10,
		PicHeightInMapUnitsMinusOne: 10,
		FrameMbsOnly:                true,
	})
	avcSeqHeader = innertest.BuildAvcSeqHeader(66, 0xc0, 30, 4, sps, innertest.Pps)
)

func makeMsg(typeId uint8, timestamp uint32, payload []byte) base.RtmpMsg {
	return base.RtmpMsg{
		Header: base.RtmpHeader{
			MsgTypeId:    typeId,
			MsgLen:       uint32(len(payload)),
			TimestampAbs: timestamp,
		},
		Payload: payload,
	}
}

func buildMetadata(opa rtmp.ObjectPairArray) []byte {
	buf := &bytes.Buffer{}
	_ = rtmp.Amf0.WriteString(buf, rtmp.MetadataNameSetDataFrame)
	_ = rtmp.Amf0.WriteString(buf, rtmp.MetadataNameOnMetaData)
	_ = rtmp.Amf0.WriteObject(buf, opa)
	return buf.Bytes()
}

func newHandler(t *testing.T, raw string) (*logic.SessionManager, *logic.CodecHandler) {
	config, err := logic.LoadConf([]byte(raw))
	assert.Equal(t, nil, err)
	sm := logic.NewSessionManager(config)
	return sm, logic.NewCodecHandler(sm)
}

func TestCodecHandler(t *testing.T) {
	sm, h := newHandler(t, `{"apps": {"copy": {"meta": "copy"}}}`)

	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdAudio, 0, aacSeqHeader)))
	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdVideo, 0, avcSeqHeader)))
	md := buildMetadata(rtmp.ObjectPairArray{{Key: "width", Value: 1280}, {Key: "height", Value: 720}})
	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdMetadata, 10, md)))
	// 不是metadata的data message被忽略
	other := &bytes.Buffer{}
	_ = rtmp.Amf0.WriteString(other, "onTextData")
	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdMetadata, 10, other.Bytes())))
	// 其他类型的message被忽略
	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(20, 0, []byte{0x02})))

	assert.Equal(t, 1, sm.Count())
	stat := sm.StatCodec("s1")
	assert.Equal(t, "s1", stat.SessionId)
	assert.Equal(t, "live", stat.AppName)
	assert.Equal(t, "on", stat.MetaMode)
	assert.Equal(t, "AAC", stat.AudioCodec)
	assert.Equal(t, "H264", stat.VideoCodec)
	assert.Equal(t, 48000, stat.SampleRate)
	// 后收到的metadata覆盖了seq header中的宽高
	assert.Equal(t, uint32(1280), stat.Width)
	assert.Equal(t, uint32(720), stat.Height)
	assert.Equal(t, uint32(1), stat.RefFrames)
	assert.Equal(t, len(aacSeqHeader), stat.AacSeqHeaderLen)
	assert.Equal(t, len(avcSeqHeader), stat.AvcSeqHeaderLen)
	assert.Equal(t, uint32(1), stat.MetadataVersion)
	assert.Equal(t, uint64(1), stat.AudioMsgCount)
	assert.Equal(t, uint64(1), stat.VideoMsgCount)
	assert.Equal(t, uint64(1), stat.MetadataMsgCount)

	// 同一个版本号生成器
	assert.Equal(t, nil, h.OnMsg("s2", "copy", makeMsg(base.RtmpTypeIdMetadata, 0, md)))
	stat = sm.StatCodec("s2")
	assert.Equal(t, "copy", stat.MetaMode)
	assert.Equal(t, uint32(2), stat.MetadataVersion)
	assert.Equal(t, uint32(1280), stat.Width)

	all := sm.Snapshot()
	assert.Equal(t, 2, len(all))
	assert.Equal(t, "s1", all[0].SessionId)
	assert.Equal(t, "s2", all[1].SessionId)

	// bootstrap顺序 metadata, video, audio
	msgs := sm.Get("s1").Context().BootstrapMsgs()
	assert.Equal(t, 3, len(msgs))
	assert.Equal(t, base.RtmpTypeIdMetadata, msgs[0].Header.MsgTypeId)
	assert.Equal(t, base.RtmpTypeIdVideo, msgs[1].Header.MsgTypeId)
	assert.Equal(t, base.RtmpTypeIdAudio, msgs[2].Header.MsgTypeId)
	assert.Equal(t, avcSeqHeader, msgs[1].Payload)

	h.OnDisconnect("s1")
	assert.Equal(t, (*logic.StatCodec)(nil), sm.StatCodec("s1"))
	assert.Equal(t, 1, sm.Count())
	// 重复断开不影响其他session
	h.OnDisconnect("s1")
	assert.Equal(t, base.ErrSessionNotFound, sm.Remove("s1"))

	sm.Dispose()
	assert.Equal(t, 0, sm.Count())
}

func TestCodecHandler_InvalidMetadata(t *testing.T) {
	sm, h := newHandler(t, `{}`)

	// 能识别出onMetaData，但是对象不完整
	md := buildMetadata(rtmp.ObjectPairArray{{Key: "width", Value: 1280}})
	err := h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdMetadata, 0, md[:len(md)-4]))
	assert.IsNotNil(t, err)

	stat := sm.StatCodec("s1")
	assert.Equal(t, uint64(1), stat.MetadataMsgCount)
	assert.Equal(t, uint32(0), stat.MetadataVersion)
	assert.Equal(t, uint32(0), stat.Width)
}

func TestNaluSummary(t *testing.T) {
	state := codec.State{VideoCodecId: int(base.RtmpCodecIdAvc), NalLengthSize: 4}

	keyframe := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps, innertest.IdrSlice)
	assert.Equal(t, "SPS,PPS,IDR", logic.NaluSummary(makeMsg(base.RtmpTypeIdVideo, 0, keyframe), state))

	// seq header和音频不解析
	assert.Equal(t, "", logic.NaluSummary(makeMsg(base.RtmpTypeIdVideo, 0, avcSeqHeader), state))
	assert.Equal(t, "", logic.NaluSummary(makeMsg(base.RtmpTypeIdAudio, 0, aacSeqHeader), state))

	// 长度字段超出剩余数据
	assert.Equal(t, "SPS,invalid", logic.NaluSummary(makeMsg(base.RtmpTypeIdVideo, 0, keyframe[:5+4+len(sps)+4+2]), state))

	// 还不知道nal长度字段大小
	assert.Equal(t, "invalid", logic.NaluSummary(makeMsg(base.RtmpTypeIdVideo, 0, keyframe), codec.State{VideoCodecId: 7}))

	state.VideoCodecId = 2
	assert.Equal(t, "", logic.NaluSummary(makeMsg(base.RtmpTypeIdVideo, 0, keyframe), state))
}

func TestSessionManager_Tick(t *testing.T) {
	sm, h := newHandler(t, `{"codec": {"idle_timeout_sec": 10}}`)

	raw := make([]byte, 64000)
	raw[0], raw[1] = 0xaf, 0x01
	assert.Equal(t, nil, h.OnMsg("s1", "live", makeMsg(base.RtmpTypeIdAudio, 0, raw)))
	assert.Equal(t, nil, h.OnMsg("s2", "live", makeMsg(base.RtmpTypeIdAudio, 0, aacSeqHeader)))

	sm.Tick(1)
	assert.Equal(t, 0, sm.StatCodec("s1").ReadBitrate)
	sm.Tick(5)
	stat := sm.StatCodec("s1")
	assert.Equal(t, uint64(64000), stat.ReadBytesSum)
	assert.Equal(t, 100, stat.ReadBitrate)

	// 第一次检查时记录当前值
	sm.Tick(10)
	assert.Equal(t, 2, sm.Count())
	assert.Equal(t, 0, sm.StatCodec("s1").ReadBitrate)

	assert.Equal(t, nil, h.OnMsg("s2", "live", makeMsg(base.RtmpTypeIdAudio, 0, aacSeqHeader)))
	sm.Tick(20)
	assert.Equal(t, 1, sm.Count())
	assert.Equal(t, (*logic.StatCodec)(nil), sm.StatCodec("s1"))
	assert.IsNotNil(t, sm.StatCodec("s2"))
}
