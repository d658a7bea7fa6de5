// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package aac

import (
	"encoding/hex"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// AudioSpecificConfig(asc)
// keywords: Seq Header,
// e.g.  rtmp, flv
//

const (
	AscSamplingFrequencyIndex48000  = 3
	AscSamplingFrequencyIndex44100  = 4
	AscSamplingFrequencyIndexEscape = 15

	AudioObjectTypeEscape = 31
	AudioObjectTypeSbr    = 5
	AudioObjectTypePs     = 29
)

const (
	minAscLength = 2
)

// 注意，下标13、14为保留值，这里和15一样映射为0，不做额外处理
var samplingFrequencies = [16]int{
	96000, 88200, 64000, 48000,
	44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000,
	7350, 0, 0, 0,
}

// <ISO_IEC_14496-3.pdf>
// <1.6.2.1 AudioSpecificConfig>, <page 33/110>
// <1.5.1.1 Audio Object type definition>, <page 23/110>
// <1.6.3.3 samplingFrequencyIndex>, <page 35/110>
// <1.6.3.4 channelConfiguration>
// --------------------------------------------------------
// audio object type      [5b] 1=AAC MAIN  2=AAC LC  5=SBR  29=PS
//   if 31: [6b] + 32
// samplingFrequencyIndex [4b] 3=48000  4=44100  6=24000  5=32000  11=11025
//   if 15: samplingFrequency [24b]
// channelConfiguration   [4b] 1=center front speaker  2=left, right front speakers
//
// if audio object type is 5 or 29:
//   extensionSamplingFrequencyIndex [4b]
//     if 15: extensionSamplingFrequency [24b]
//   audio object type [5b]
//     if 31: [6b] + 32
type AscContext struct {
	AudioObjectType        uint8 // 如果是SBR/PS，为嵌套的object type
	SamplingFrequencyIndex uint8 // 如果是SBR/PS，为嵌套的index
	SamplingFrequency      int   // 查表或者显式携带的采样率
	ChannelConfiguration   uint8
	Sbr                    bool
	Ps                     bool
}

func NewAscContext(asc []byte) (*AscContext, error) {
	var ascCtx AscContext
	if err := ascCtx.Unpack(asc); err != nil {
		return nil, err
	}
	return &ascCtx, nil
}

// ParseSeqHeader
//
// @param payload: rtmp message的payload部分或者flv tag的payload部分，包含2字节的audio tag头
//                 函数调用结束后，内部不持有该内存块
//
func ParseSeqHeader(payload []byte) (ascCtx AscContext, err error) {
	if len(payload) < base.RtmpAudioTagHeaderSizeAac {
		return ascCtx, nazaerrors.Wrap(base.NewErrShortBuffer(base.RtmpAudioTagHeaderSizeAac, len(payload), "aac seq header"))
	}
	err = ascCtx.Unpack(payload[base.RtmpAudioTagHeaderSizeAac:])
	return
}

// Unpack
//
// @param asc: AAC Audio Specifc Config
//             注意，如果是rtmp/flv的message/tag，应去除Seq Header头部的2个字节
//             函数调用结束后，内部不持有该内存块
//
// 解析失败时不修改 ascCtx
//
func (ascCtx *AscContext) Unpack(asc []byte) error {
	if len(asc) < minAscLength {
		nazalog.Warnf("aac seq header length invalid. len=%d", len(asc))
		return nazaerrors.Wrap(base.ErrAac)
	}

	var ctx AscContext
	if err := ctx.unpack(asc); err != nil {
		nazalog.Warnf("unpack asc failed. err=%+v, asc=%s", err, hex.Dump(nazabytes.Prefix(asc, base.HexDumpMaxLength)))
		return err
	}
	*ascCtx = ctx
	return nil
}

func (ascCtx *AscContext) GetSamplingFrequency() (int, error) {
	if ascCtx.SamplingFrequency == 0 {
		nazalog.Errorf("GetSamplingFrequency failed. ascCtx=%+v", ascCtx)
		return -1, base.ErrAac
	}
	return ascCtx.SamplingFrequency, nil
}

func (ascCtx *AscContext) unpack(asc []byte) (err error) {
	br := base.NewBitReader(asc)

	if ascCtx.AudioObjectType, err = readAudioObjectType(&br); err != nil {
		return err
	}
	if ascCtx.SamplingFrequencyIndex, ascCtx.SamplingFrequency, err = readSamplingFrequency(&br); err != nil {
		return err
	}
	if ascCtx.ChannelConfiguration, err = br.ReadBits8(4); err != nil {
		return nazaerrors.Wrap(err)
	}

	if ascCtx.AudioObjectType == AudioObjectTypeSbr || ascCtx.AudioObjectType == AudioObjectTypePs {
		if ascCtx.AudioObjectType == AudioObjectTypePs {
			ascCtx.Ps = true
		}
		ascCtx.Sbr = true

		if ascCtx.SamplingFrequencyIndex, ascCtx.SamplingFrequency, err = readSamplingFrequency(&br); err != nil {
			return err
		}
		if ascCtx.AudioObjectType, err = readAudioObjectType(&br); err != nil {
			return err
		}
	}
	return nil
}

func readAudioObjectType(br *base.BitReader) (uint8, error) {
	t, err := br.ReadBits8(5)
	if err != nil {
		return 0, nazaerrors.Wrap(err)
	}
	if t == AudioObjectTypeEscape {
		ext, err := br.ReadBits8(6)
		if err != nil {
			return 0, nazaerrors.Wrap(err)
		}
		t = ext + 32
	}
	return t, nil
}

func readSamplingFrequency(br *base.BitReader) (index uint8, frequency int, err error) {
	if index, err = br.ReadBits8(4); err != nil {
		return 0, 0, nazaerrors.Wrap(err)
	}
	if index == AscSamplingFrequencyIndexEscape {
		v, err := br.ReadBits24()
		if err != nil {
			return 0, 0, nazaerrors.Wrap(err)
		}
		return index, int(v), nil
	}
	return index, samplingFrequencies[index], nil
}
