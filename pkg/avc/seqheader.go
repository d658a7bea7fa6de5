// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"encoding/hex"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// Context 从 AVCDecoderConfigurationRecord 以及其中的sps解析出的字段
type Context struct {
	Profile       uint8 // record中的 AVCProfileIndication
	Compat        uint8
	Level         uint8
	NalLengthSize int

	RefFrames uint32
	Width     uint32
	Height    uint32
}

// Sps 解析过程中用到的sps字段
//
// ISO-14496-10.pdf
// 7.3.2.1.1 Sequence parameter set data syntax
type Sps struct {
	ProfileIdc uint8
	LevelIdc   uint8
	SpsId      uint32

	ChromaFormatIdc             uint32
	SeparateColourPlaneFlag     uint8
	BitDepthLumaMinus8          uint32
	BitDepthChromaMinus8        uint32
	QpprimeYZeroTransformBypass uint8
	SeqScalingMatrixPresentFlag uint8

	Log2MaxFrameNumMinus4       uint32
	PicOrderCntType             uint32
	Log2MaxPicOrderCntLsbMinus4 uint32
	NumRefFramesInPocCycle      uint32

	NumRefFrames                uint32
	GapsInFrameNumAllowedFlag   uint8
	PicWidthInMbsMinusOne       uint32
	PicHeightInMapUnitsMinusOne uint32
	FrameMbsOnlyFlag            uint8
	MbAdaptiveFrameFieldFlag    uint8
	Direct8X8InferenceFlag      uint8

	FrameCroppingFlag     uint8
	FrameCropLeftOffset   uint32
	FrameCropRightOffset  uint32
	FrameCropTopOffset    uint32
	FrameCropBottomOffset uint32
}

// minSeqHeaderLength 5字节tag头，1字节version，profile，compat，level，lengthSizeMinusOne，numOfSps
const minSeqHeaderLength = 11

// ParseSeqHeader 解析 AVCDecoderConfigurationRecord 以及第一个sps
//
// 只有完整解析成功时才修改 ctx。
// 如果record中没有sps，或者sps的nal header不是 0x67，只更新 profile，compat，level，nal length size，并返回nil。
//
// @param payload: rtmp message的payload部分或者flv tag的payload部分
//                 注意，包含了头部2字节类型以及3字节的cts
//                 函数调用结束后，内部不持有该内存块
//
func ParseSeqHeader(payload []byte, ctx *Context) error {
	if len(payload) < minSeqHeaderLength {
		nazalog.Warnf("avc seq header length invalid. len=%d", len(payload))
		return nazaerrors.Wrap(base.NewErrShortBuffer(minSeqHeaderLength, len(payload), "avc seq header"))
	}

	out := *ctx
	if err := parseSeqHeader(payload, &out); err != nil {
		nazalog.Warnf("parse avc seq header failed. err=%+v, payload=%s",
			err, hex.Dump(nazabytes.Prefix(payload, base.HexDumpMaxLength)))
		return err
	}
	*ctx = out
	return nil
}

func parseSeqHeader(payload []byte, ctx *Context) error {
	// H.264-AVC-ISO_IEC_14496-15.pdf
	// 5.2.4 Decoder configuration information
	//
	// 5字节tag头 + 1字节configurationVersion
	index := base.RtmpVideoTagHeaderSize + 1

	ctx.Profile = payload[index]
	ctx.Compat = payload[index+1]
	ctx.Level = payload[index+2]
	ctx.NalLengthSize = int(payload[index+3]&0x03) + 1
	index += 4

	numOfSps := payload[index] & 0x1f
	index++
	if numOfSps == 0 {
		nazalog.Debugf("avc seq header without sps. ctx=%+v", ctx)
		return nil
	}

	if len(payload)-index < 3 {
		return nazaerrors.Wrap(base.NewErrShortBuffer(index+3, len(payload), "avc sps length"))
	}
	spsLength := int(payload[index])<<8 | int(payload[index+1])
	index += 2
	if payload[index] != SpsNaluHeader {
		nazalog.Debugf("avc seq header sps nal header mismatch. b=%d", payload[index])
		return nil
	}
	if len(payload)-index < spsLength {
		return nazaerrors.Wrap(base.NewErrShortBuffer(index+spsLength, len(payload), "avc sps"))
	}

	return ParseSps(payload[index:index+spsLength], ctx)
}

// ParseSps 从sps中解析 ref frames，宽，高
//
// 只有完整解析成功时才修改 ctx 的对应字段。
//
// @param sps: 包含1字节nal header
//
func ParseSps(sps []byte, ctx *Context) error {
	var s Sps
	br := base.NewBitReader(sps)
	if err := br.SkipBits(8); err != nil {
		return nazaerrors.Wrap(err)
	}
	if err := parseSps(&br, &s); err != nil {
		return err
	}

	width := (int64(s.PicWidthInMbsMinusOne)+1)*16 - (int64(s.FrameCropLeftOffset)+int64(s.FrameCropRightOffset))*2
	height := int64(2-s.FrameMbsOnlyFlag)*(int64(s.PicHeightInMapUnitsMinusOne)+1)*16 -
		(int64(s.FrameCropTopOffset)+int64(s.FrameCropBottomOffset))*2
	if width < 0 || height < 0 || width > 0xffffffff || height > 0xffffffff {
		nazalog.Warnf("invalid avc dimension. sps=%+v", s)
		return nazaerrors.Wrap(base.ErrAvc)
	}

	ctx.RefFrames = s.NumRefFrames
	ctx.Width = uint32(width)
	ctx.Height = uint32(height)
	return nil
}

func isHighProfile(profileIdc uint8) bool {
	switch profileIdc {
	case 100, 110, 122, 244, 44, 83, 86, 118:
		return true
	}
	return false
}

func parseSps(br *base.BitReader, sps *Sps) (err error) {
	if sps.ProfileIdc, err = br.ReadBits8(8); err != nil {
		return nazaerrors.Wrap(err)
	}
	// constraint_set0_flag ~ constraint_set5_flag, reserved_zero_2bits
	if err = br.SkipBits(8); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.LevelIdc, err = br.ReadBits8(8); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.SpsId, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}

	if isHighProfile(sps.ProfileIdc) {
		if sps.ChromaFormatIdc, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.ChromaFormatIdc == 3 {
			if sps.SeparateColourPlaneFlag, err = br.ReadBit(); err != nil {
				return nazaerrors.Wrap(err)
			}
		}
		if sps.BitDepthLumaMinus8, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.BitDepthChromaMinus8, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.QpprimeYZeroTransformBypass, err = br.ReadBit(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.SeqScalingMatrixPresentFlag, err = br.ReadBit(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.SeqScalingMatrixPresentFlag == 1 {
			// 只读取每个scaling list的present flag，scaling list本身没有解析
			// TODO(chef): 解析 scaling_list()，某个present flag为1时后续字段会错位
			n := 8
			if sps.ChromaFormatIdc == 3 {
				n = 12
			}
			for i := 0; i < n; i++ {
				if _, err = br.ReadBit(); err != nil {
					return nazaerrors.Wrap(err)
				}
			}
		}
	}

	if sps.Log2MaxFrameNumMinus4, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.PicOrderCntType, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}
	switch sps.PicOrderCntType {
	case 0:
		if sps.Log2MaxPicOrderCntLsbMinus4, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
	case 1:
		// delta_pic_order_always_zero_flag
		if _, err = br.ReadBit(); err != nil {
			return nazaerrors.Wrap(err)
		}
		// offset_for_non_ref_pic, offset_for_top_to_bottom_field
		for i := 0; i < 2; i++ {
			if _, err = br.ReadGolomb(); err != nil {
				return nazaerrors.Wrap(err)
			}
		}
		if sps.NumRefFramesInPocCycle, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		for i := uint32(0); i < sps.NumRefFramesInPocCycle; i++ {
			if _, err = br.ReadGolomb(); err != nil {
				return nazaerrors.Wrap(err)
			}
		}
	}

	if sps.NumRefFrames, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.GapsInFrameNumAllowedFlag, err = br.ReadBit(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.PicWidthInMbsMinusOne, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.PicHeightInMapUnitsMinusOne, err = br.ReadGolomb(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.FrameMbsOnlyFlag, err = br.ReadBit(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.FrameMbsOnlyFlag == 0 {
		if sps.MbAdaptiveFrameFieldFlag, err = br.ReadBit(); err != nil {
			return nazaerrors.Wrap(err)
		}
	}
	if sps.Direct8X8InferenceFlag, err = br.ReadBit(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.FrameCroppingFlag, err = br.ReadBit(); err != nil {
		return nazaerrors.Wrap(err)
	}
	if sps.FrameCroppingFlag == 1 {
		if sps.FrameCropLeftOffset, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropRightOffset, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropTopOffset, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropBottomOffset, err = br.ReadGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
	}
	return nil
}
