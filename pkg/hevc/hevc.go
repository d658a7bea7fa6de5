// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package hevc

import (
	"encoding/hex"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

var NaluTypeMapping = map[uint8]string{
	NaluTypeSliceTrailR: "SLICE",
	NaluTypeSliceIdr:    "I",
	NaluTypeSliceIdrNlp: "IDR",
	NaluTypeVps:         "VPS",
	NaluTypeSps:         "SPS",
	NaluTypePps:         "PPS",
	NaluTypeAud:         "AUD",
	NaluTypeSei:         "SEI",
	NaluTypeSeiSuffix:   "SEI",
}

// ISO_IEC_23008-2_2013.pdf
// Table 7-1 – NAL unit type codes and NAL unit type classes
const (
	NaluTypeSliceTrailR uint8 = 1  // 0x01
	NaluTypeSliceIdr    uint8 = 19 // 0x13
	NaluTypeSliceIdrNlp uint8 = 20 // 0x14
	NaluTypeVps         uint8 = 32 // 0x20
	NaluTypeSps         uint8 = 33 // 0x21
	NaluTypePps         uint8 = 34 // 0x22
	NaluTypeAud         uint8 = 35 // 0x23
	NaluTypeSei         uint8 = 39 // 0x27
	NaluTypeSeiSuffix   uint8 = 40 // 0x28
)

// ParseNaluType
//
// @param v: nalu的第1个字节
//
func ParseNaluType(v uint8) uint8 {
	// 6 bit in middle
	// 0*** ***0
	return (v & 0x7E) >> 1
}

func ParseNaluTypeReadable(v uint8) string {
	b, ok := NaluTypeMapping[ParseNaluType(v)]
	if !ok {
		return "unknown"
	}
	return b
}

// Context 从 HEVCDecoderConfigurationRecord 中解析出的字段
type Context struct {
	Profile           uint8
	Compat            uint32
	Level             uint8
	FrameRate         uint32 // avgFrameRate
	ConstantFrameRate uint32
	NalLengthSize     int

	NumOfArrays int
	NumOfNalus  int // 所有array中的nalu个数之和
}

// ParseSeqHeader 解析 HEVCDecoderConfigurationRecord
//
// 注意，与avc不同，字段是边解析边写入 ctx 的，解析失败时，失败位置之前的字段已经被修改。
// vps，sps，pps只遍历，不解析内容，所以没有宽高信息。
//
// @param payload: rtmp message的payload部分或者flv tag的payload部分
//                 注意，包含了头部2字节类型以及3字节的cts
//                 函数调用结束后，内部不持有该内存块
//
func ParseSeqHeader(payload []byte, ctx *Context) error {
	if err := parseSeqHeader(payload, ctx); err != nil {
		nazalog.Warnf("parse hevc seq header failed. err=%+v, ctx=%+v, payload=%s",
			err, ctx, hex.Dump(nazabytes.Prefix(payload, base.HexDumpMaxLength)))
		return err
	}
	nazalog.Debugf("hevc seq header. ctx=%+v", ctx)
	return nil
}

func parseSeqHeader(payload []byte, ctx *Context) error {
	// ISO_IEC_14496-15_2019.pdf
	// 8.3.3.1.2 HEVCDecoderConfigurationRecord
	br := base.NewBitReader(payload)

	// 5字节tag头 + 1字节configurationVersion
	if err := br.SkipBits(48); err != nil {
		return nazaerrors.Wrap(err)
	}

	// general_profile_space(2) general_tier_flag(1) general_profile_idc(5)
	b, err := br.ReadBits8(8)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	// 注意，这个运算的结果总是0，保持现有行为不变
	ctx.Profile = (b & 0x1f) >> 5

	// 每个字段先读到局部变量，读取成功后才写入 ctx
	compat, err := br.ReadBits(32)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.Compat = compat

	// general_constraint_indicator_flags
	if err = br.SkipBits(48); err != nil {
		return nazaerrors.Wrap(err)
	}
	level, err := br.ReadBits8(8)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.Level = level

	// min_spatial_segmentation_idc, parallelismType, chroma_format_idc,
	// bit_depth_luma_minus8, bit_depth_chroma_minus8, 以及它们前面的reserved位
	if err = br.SkipBits(48); err != nil {
		return nazaerrors.Wrap(err)
	}

	frameRate, err := br.ReadBits(16)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.FrameRate = frameRate
	constantFrameRate, err := br.ReadBits(2)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.ConstantFrameRate = constantFrameRate

	// numTemporalLayers(3) temporalIdNested(1)
	if err = br.SkipBits(4); err != nil {
		return nazaerrors.Wrap(err)
	}
	lengthSizeMinusOne, err := br.ReadBits8(2)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.NalLengthSize = int(lengthSizeMinusOne) + 1

	numOfArrays, err := br.ReadBits8(8)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ctx.NumOfArrays = int(numOfArrays)
	ctx.NumOfNalus = 0

	for i := 0; i < int(numOfArrays); i++ {
		// array_completeness(1) reserved(1) NAL_unit_type(6)
		t, err := br.ReadBits8(8)
		if err != nil {
			return nazaerrors.Wrap(err)
		}
		numNalus, err := br.ReadBits16(16)
		if err != nil {
			return nazaerrors.Wrap(err)
		}
		for j := 0; j < int(numNalus); j++ {
			length, err := br.ReadBits16(16)
			if err != nil {
				return nazaerrors.Wrap(err)
			}
			if err = br.SkipBits(uint(length) * 8); err != nil {
				return nazaerrors.Wrap(err)
			}
			ctx.NumOfNalus++
		}
		nazalog.Debugf("hevc seq header array. type=%d, num=%d", t&0x3f, numNalus)
	}
	return nil
}
