// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package aac

import (
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

// soundRates 为 AUDIODATA 中 SoundRate 字段对应的采样率
var soundRates = [4]int{5512, 11025, 22050, 44100}

// <spec-video_file_format_spec_v10.pdf>, <Audio tags, AUDIODATA>, <page 10/48>
// ----------------------------------------------------------------------------
// soundFormat    [4b] 10=AAC
// soundRate      [2b] 3=44kHz. AAC always 3
// soundSize      [1b] 0=snd8Bit, 1=snd16Bit
// soundType      [1b] 0=sndMono, 1=sndStereo. AAC always 1
type AudioTagHeaderContext struct {
	SoundFormat uint8 // [4b]
	SoundRate   uint8 // [2b]
	SoundSize   uint8 // [1b]
	SoundType   uint8 // [1b]
}

// Unpack
//
// @param b: rtmp/flv的message/tag的payload的第1个字节开始
//           函数调用结束后，内部不持有该内存块
//
func (ahCtx *AudioTagHeaderContext) Unpack(b []byte) error {
	br := base.NewBitReader(b)
	var ctx AudioTagHeaderContext
	var err error
	if ctx.SoundFormat, err = br.ReadBits8(4); err != nil {
		return nazaerrors.Wrap(err)
	}
	if ctx.SoundRate, err = br.ReadBits8(2); err != nil {
		return nazaerrors.Wrap(err)
	}
	if ctx.SoundSize, err = br.ReadBits8(1); err != nil {
		return nazaerrors.Wrap(err)
	}
	if ctx.SoundType, err = br.ReadBits8(1); err != nil {
		return nazaerrors.Wrap(err)
	}
	*ahCtx = ctx
	return nil
}

// Channels 1=mono 2=stereo
func (ahCtx *AudioTagHeaderContext) Channels() int {
	return int(ahCtx.SoundType) + 1
}

// SampleSize 单位字节
func (ahCtx *AudioTagHeaderContext) SampleSize() int {
	if ahCtx.SoundSize == 1 {
		return 2
	}
	return 1
}

func (ahCtx *AudioTagHeaderContext) SampleRate() int {
	return soundRates[ahCtx.SoundRate&0x03]
}

// MakeAudioDataSeqHeaderWithAsc
//
// @param asc: 函数调用结束后，内部不持有该内存块
//
// @return out: 内存块为独立新申请；函数调用结束后，内部不持有该内存块
//
func MakeAudioDataSeqHeaderWithAsc(asc []byte) (out []byte, err error) {
	if len(asc) < minAscLength {
		return nil, base.ErrAac
	}

	// 注意，前两个字节是audio tag头，后面跟着asc
	out = make([]byte, 2+len(asc))
	out[0] = 0xaf
	out[1] = base.RtmpAacPacketTypeSeqHeader
	copy(out[2:], asc)
	return
}
