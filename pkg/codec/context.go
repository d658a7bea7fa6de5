// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package codec

import (
	"sync"
	"sync/atomic"

	"github.com/q191201771/lalcodec/pkg/aac"
	"github.com/q191201771/lalcodec/pkg/avc"
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/hevc"
	"github.com/q191201771/naza/pkg/nazalog"
)

// State 一路流的音视频参数
//
// 来源有三个：音视频message的头部字节，seq header，metadata。
//
type State struct {
	AudioCodecId int `json:"audio_codec_id"`
	VideoCodecId int `json:"video_codec_id"`

	// 来自audio tag头
	Channels   int `json:"channels"`
	SampleSize int `json:"sample_size"`
	SampleRate int `json:"sample_rate"`

	// 来自aac seq header
	AacProfile  uint8 `json:"aac_profile"`
	AacChanConf uint8 `json:"aac_chan_conf"`
	AacSbr      bool  `json:"aac_sbr"`
	AacPs       bool  `json:"aac_ps"`

	// 来自avc或hevc seq header
	AvcProfile    uint8  `json:"avc_profile"`
	AvcCompat     uint32 `json:"avc_compat"`
	AvcLevel      uint8  `json:"avc_level"`
	NalLengthSize int    `json:"avc_nal_bytes"`
	RefFrames     uint32 `json:"avc_ref_frames"` // hevc时为constantFrameRate

	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`

	// 来自metadata，hevc seq header也会设置FrameRate
	FrameRate     uint32 `json:"frame_rate"`
	Duration      uint32 `json:"duration"`
	VideoDataRate uint32 `json:"video_data_rate"`
	AudioDataRate uint32 `json:"audio_data_rate"`
	Profile       string `json:"profile"`
	Level         string `json:"level"`
}

// CachedBuffer 安装后不再修改，可以被多个订阅者并发读取
type CachedBuffer struct {
	Payload   []byte
	Timestamp uint32
	Version   uint32 // 只有metadata使用
}

// Context 一路流的编码参数上下文
//
// OnAudio，OnVideo，OnMetadata 需要由同一个协程按message到达的顺序调用。
// State，AacSeqHeader 等读取方法可以被其他协程并发调用。
//
type Context struct {
	metaMode   base.MetaMode
	versionGen *VersionGenerator

	mutex sync.Mutex
	state State

	aacSeqHeader atomic.Pointer[CachedBuffer]
	avcSeqHeader atomic.Pointer[CachedBuffer]
	metadata     atomic.Pointer[CachedBuffer]
}

type Option struct {
	MetaMode base.MetaMode
}

var defaultOption = Option{
	MetaMode: base.DefaultMetaMode,
}

type ModOption func(option *Option)

// NewContext
//
// @param versionGen: metadata版本号生成器，多个 Context 共享同一个
//
func NewContext(versionGen *VersionGenerator, modOptions ...ModOption) *Context {
	option := defaultOption
	for _, fn := range modOptions {
		fn(&option)
	}
	return &Context{
		metaMode:   option.MetaMode,
		versionGen: versionGen,
	}
}

func (c *Context) MetaMode() base.MetaMode {
	return c.metaMode
}

// State 返回参数的拷贝
func (c *Context) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// AacSeqHeader 返回nil表示还没有
func (c *Context) AacSeqHeader() *CachedBuffer {
	return c.aacSeqHeader.Load()
}

// AvcSeqHeader 视频seq header，H264和H265都缓存在这里
func (c *Context) AvcSeqHeader() *CachedBuffer {
	return c.avcSeqHeader.Load()
}

func (c *Context) Metadata() *CachedBuffer {
	return c.metadata.Load()
}

// MetadataVersion 0表示还没有metadata
func (c *Context) MetadataVersion() uint32 {
	if m := c.metadata.Load(); m != nil {
		return m.Version
	}
	return 0
}

// OnAudio
//
// @param msg: 函数调用结束后，内部不持有 msg.Payload 内存块
//
func (c *Context) OnAudio(msg base.RtmpMsg) {
	var ahCtx aac.AudioTagHeaderContext
	if err := ahCtx.Unpack(msg.Payload); err != nil {
		return
	}
	payload := msg.Payload

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state.AudioCodecId = int(ahCtx.SoundFormat)
	c.state.Channels = ahCtx.Channels()
	c.state.SampleSize = ahCtx.SampleSize()
	if c.state.SampleRate == 0 {
		c.state.SampleRate = ahCtx.SampleRate()
	}

	if len(payload) < 3 {
		return
	}
	if Classify(base.RtmpTypeIdAudio, payload, c.state.VideoCodecId, c.state.NalLengthSize) != HeaderKindExplicit {
		return
	}
	if ahCtx.SoundFormat != base.RtmpSoundFormatAac {
		return
	}

	ascCtx, err := aac.ParseSeqHeader(payload)
	if err != nil {
		return
	}
	c.state.AacProfile = ascCtx.AudioObjectType
	c.state.AacChanConf = ascCtx.ChannelConfiguration
	c.state.AacSbr = ascCtx.Sbr
	c.state.AacPs = ascCtx.Ps
	c.state.SampleRate = ascCtx.SamplingFrequency

	nazalog.Debugf("aac seq header. profile=%d, sample_rate=%d, chan_conf=%d, sbr=%t, ps=%t",
		ascCtx.AudioObjectType, ascCtx.SamplingFrequency, ascCtx.ChannelConfiguration, ascCtx.Sbr, ascCtx.Ps)
	c.aacSeqHeader.Store(newCachedBuffer(payload, msg.Header.TimestampAbs, 0))
}

// OnVideo
//
// @param msg: 函数调用结束后，内部不持有 msg.Payload 内存块
//
func (c *Context) OnVideo(msg base.RtmpMsg) {
	payload := msg.Payload
	if len(payload) < 1 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.state.VideoCodecId = int(payload[0] & 0x0f)
	if len(payload) < 3 {
		return
	}

	switch Classify(base.RtmpTypeIdVideo, payload, c.state.VideoCodecId, c.state.NalLengthSize) {
	case HeaderKindExplicit:
		switch uint8(c.state.VideoCodecId) {
		case base.RtmpCodecIdAvc:
			if c.parseAvcSeqHeader(payload) {
				c.avcSeqHeader.Store(newCachedBuffer(payload, msg.Header.TimestampAbs, 0))
			}
		case base.RtmpCodecIdHevc:
			if c.parseHevcSeqHeader(payload) {
				c.avcSeqHeader.Store(newCachedBuffer(payload, msg.Header.TimestampAbs, 0))
			}
		}
	case HeaderKindCombinedNalu:
		sh, err := avc.BuildSeqHeaderFromKeyframe(payload, c.state.AvcProfile, uint8(c.state.AvcCompat), c.state.AvcLevel, c.state.NalLengthSize)
		if err != nil {
			nazalog.Warnf("build avc seq header from keyframe failed. err=%+v", err)
			return
		}
		if sh == nil {
			return
		}
		if c.parseAvcSeqHeader(sh) {
			nazalog.Debugf("avc seq header built from keyframe. len=%d", len(sh))
			c.avcSeqHeader.Store(&CachedBuffer{Payload: sh, Timestamp: msg.Header.TimestampAbs})
		}
	}
}

// Dispose 释放缓存的seq header和metadata，并清空参数，可以多次调用
func (c *Context) Dispose() {
	c.mutex.Lock()
	c.state = State{}
	c.mutex.Unlock()

	c.aacSeqHeader.Store(nil)
	c.avcSeqHeader.Store(nil)
	c.metadata.Store(nil)
}

// BootstrapMsgs 新的订阅者开始接收数据前需要先发送的message，顺序为metadata，视频seq header，音频seq header
//
// @return 返回的 RtmpMsg.Payload 指向缓存的内存块，调用方不能修改
//
func (c *Context) BootstrapMsgs() []base.RtmpMsg {
	var ret []base.RtmpMsg
	if m := c.metadata.Load(); m != nil {
		ret = append(ret, makeMsg(base.RtmpCsidAmf, base.RtmpTypeIdMetadata, m))
	}
	if v := c.avcSeqHeader.Load(); v != nil {
		ret = append(ret, makeMsg(base.RtmpCsidVideo, base.RtmpTypeIdVideo, v))
	}
	if a := c.aacSeqHeader.Load(); a != nil {
		ret = append(ret, makeMsg(base.RtmpCsidAudio, base.RtmpTypeIdAudio, a))
	}
	return ret
}

// ---------------------------------------------------------------------------------------------------------------------

// parseAvcSeqHeader 成功时更新参数，失败时参数保持不变
func (c *Context) parseAvcSeqHeader(payload []byte) bool {
	ctx := avc.Context{
		Profile:       c.state.AvcProfile,
		Compat:        uint8(c.state.AvcCompat),
		Level:         c.state.AvcLevel,
		NalLengthSize: c.state.NalLengthSize,
		RefFrames:     c.state.RefFrames,
		Width:         c.state.Width,
		Height:        c.state.Height,
	}
	if err := avc.ParseSeqHeader(payload, &ctx); err != nil {
		return false
	}
	c.state.AvcProfile = ctx.Profile
	c.state.AvcCompat = uint32(ctx.Compat)
	c.state.AvcLevel = ctx.Level
	c.state.NalLengthSize = ctx.NalLengthSize
	c.state.RefFrames = ctx.RefFrames
	c.state.Width = ctx.Width
	c.state.Height = ctx.Height
	nazalog.Debugf("avc seq header. profile=%d, compat=%d, level=%d, nal_bytes=%d, ref_frames=%d, width=%d, height=%d",
		ctx.Profile, ctx.Compat, ctx.Level, ctx.NalLengthSize, ctx.RefFrames, ctx.Width, ctx.Height)
	return true
}

// parseHevcSeqHeader 解析到哪个字段就更新到哪个字段，失败时已经解析出的字段也会保留
func (c *Context) parseHevcSeqHeader(payload []byte) bool {
	ctx := hevc.Context{
		Profile:           c.state.AvcProfile,
		Compat:            c.state.AvcCompat,
		Level:             c.state.AvcLevel,
		FrameRate:         c.state.FrameRate,
		ConstantFrameRate: c.state.RefFrames,
		NalLengthSize:     c.state.NalLengthSize,
	}
	err := hevc.ParseSeqHeader(payload, &ctx)
	c.state.AvcProfile = ctx.Profile
	c.state.AvcCompat = ctx.Compat
	c.state.AvcLevel = ctx.Level
	c.state.FrameRate = ctx.FrameRate
	c.state.RefFrames = ctx.ConstantFrameRate
	c.state.NalLengthSize = ctx.NalLengthSize
	if err != nil {
		return false
	}
	nazalog.Debugf("hevc seq header. profile=%d, compat=%d, level=%d, frame_rate=%d, nal_bytes=%d, arrays=%d, nalus=%d",
		ctx.Profile, ctx.Compat, ctx.Level, ctx.FrameRate, ctx.NalLengthSize, ctx.NumOfArrays, ctx.NumOfNalus)
	return true
}

func newCachedBuffer(b []byte, timestamp uint32, version uint32) *CachedBuffer {
	payload := make([]byte, len(b))
	copy(payload, b)
	return &CachedBuffer{
		Payload:   payload,
		Timestamp: timestamp,
		Version:   version,
	}
}

func makeMsg(csid int, typeId uint8, b *CachedBuffer) base.RtmpMsg {
	return base.RtmpMsg{
		Header: base.RtmpHeader{
			Csid:         csid,
			MsgLen:       uint32(len(b.Payload)),
			MsgTypeId:    typeId,
			MsgStreamId:  base.Msid1,
			TimestampAbs: b.Timestamp,
		},
		Payload: b.Payload,
	}
}
