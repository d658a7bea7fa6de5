// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package innertest

import (
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

// 单元测试中构造rtmp音视频payload的辅助函数

// SpsParam 构造sps时使用的字段
type SpsParam struct {
	ProfileIdc uint8
	LevelIdc   uint8
	SpsId      uint32

	// 只有 high 系列 profile 才会写入
	ChromaFormatIdc      uint32
	ScalingMatrixPresent bool

	Log2MaxFrameNumMinus4 uint32
	PicOrderCntType       uint32

	// PicOrderCntType == 0
	Log2MaxPicOrderCntLsbMinus4 uint32

	// PicOrderCntType == 1
	OffsetForRefFrame []uint32

	NumRefFrames                uint32
	PicWidthInMbsMinusOne       uint32
	PicHeightInMapUnitsMinusOne uint32
	FrameMbsOnly                bool

	FrameCropping bool
	CropLeft      uint32
	CropRight     uint32
	CropTop       uint32
	CropBottom    uint32
}

func isHighProfile(profileIdc uint8) bool {
	switch profileIdc {
	case 100, 110, 122, 244, 44, 83, 86, 118:
		return true
	}
	return false
}

// BuildSps 返回包含1字节nal header（0x67）的sps
func BuildSps(p SpsParam) []byte {
	var bb BitBuilder
	bb.WriteBits(8, 0x67)
	bb.WriteBits(8, uint64(p.ProfileIdc))
	bb.WriteBits(8, 0)
	bb.WriteBits(8, uint64(p.LevelIdc))
	bb.WriteGolomb(p.SpsId)
	if isHighProfile(p.ProfileIdc) {
		bb.WriteGolomb(p.ChromaFormatIdc)
		if p.ChromaFormatIdc == 3 {
			bb.WriteBit(0)
		}
		bb.WriteGolomb(0) // bit depth luma - 8
		bb.WriteGolomb(0) // bit depth chroma - 8
		bb.WriteBit(0)    // qpprime
		bb.WriteFlag(p.ScalingMatrixPresent)
		if p.ScalingMatrixPresent {
			n := 8
			if p.ChromaFormatIdc == 3 {
				n = 12
			}
			for i := 0; i < n; i++ {
				bb.WriteBit(0)
			}
		}
	}
	bb.WriteGolomb(p.Log2MaxFrameNumMinus4)
	bb.WriteGolomb(p.PicOrderCntType)
	switch p.PicOrderCntType {
	case 0:
		bb.WriteGolomb(p.Log2MaxPicOrderCntLsbMinus4)
	case 1:
		bb.WriteBit(0)
		bb.WriteGolomb(0)
		bb.WriteGolomb(0)
		bb.WriteGolomb(uint32(len(p.OffsetForRefFrame)))
		for _, v := range p.OffsetForRefFrame {
			bb.WriteGolomb(v)
		}
	}
	bb.WriteGolomb(p.NumRefFrames)
	bb.WriteBit(0)
	bb.WriteGolomb(p.PicWidthInMbsMinusOne)
	bb.WriteGolomb(p.PicHeightInMapUnitsMinusOne)
	bb.WriteFlag(p.FrameMbsOnly)
	if !p.FrameMbsOnly {
		bb.WriteBit(0)
	}
	bb.WriteBit(1) // direct 8x8 inference
	bb.WriteFlag(p.FrameCropping)
	if p.FrameCropping {
		bb.WriteGolomb(p.CropLeft)
		bb.WriteGolomb(p.CropRight)
		bb.WriteGolomb(p.CropTop)
		bb.WriteGolomb(p.CropBottom)
	}
	bb.WriteBit(0) // vui parameters present
	bb.WriteBit(1) // rbsp stop bit
	return bb.Bytes()
}

// Pps 一个简单的pps，只用于占位
var Pps = []byte{0x68, 0xeb, 0xe3, 0xcb, 0x22, 0xc0}

// BuildAvcSeqHeader 构造带5字节rtmp video tag头的 AVCDecoderConfigurationRecord
func BuildAvcSeqHeader(profile, compat, level uint8, nalLengthSize int, sps, pps []byte) []byte {
	out := []byte{base.RtmpAvcKeyFrame, base.RtmpAvcPacketTypeSeqHeader, 0, 0, 0}
	out = append(out, 0x01, profile, compat, level, 0xfc|uint8(nalLengthSize-1))
	out = append(out, 0xe1)
	out = appendLength16(out, sps)
	out = append(out, 0x01)
	out = appendLength16(out, pps)
	return out
}

// BuildAvcNalus 构造带5字节rtmp video tag头的nalu payload，每个nalu前有 nalLengthSize 字节的长度
func BuildAvcNalus(frameType uint8, nalLengthSize int, nalus ...[]byte) []byte {
	out := []byte{frameType<<4 | base.RtmpCodecIdAvc, base.RtmpAvcPacketTypeNalu, 0, 0, 0}
	for _, nalu := range nalus {
		l := make([]byte, 4)
		bele.BePutUint32(l, uint32(len(nalu)))
		out = append(out, l[4-nalLengthSize:]...)
		out = append(out, nalu...)
	}
	return out
}

// IdrSlice 一个idr slice的占位数据
var IdrSlice = []byte{0x65, 0x88, 0x84, 0x00, 0x33, 0xff}

// HevcParam 构造 HEVCDecoderConfigurationRecord 时使用的字段
type HevcParam struct {
	ProfileByte       uint8
	Compat            uint32
	Level             uint8
	AvgFrameRate      uint16
	ConstantFrameRate uint8
	NalLengthSize     int

	// 每个元素为一个array，包含nal type以及该类型的nalu列表
	Arrays []HevcArray
}

type HevcArray struct {
	NalType uint8
	Nalus   [][]byte
}

// BuildHevcSeqHeader 构造带5字节rtmp video tag头的 HEVCDecoderConfigurationRecord
func BuildHevcSeqHeader(p HevcParam) []byte {
	out := []byte{base.RtmpHevcKeyFrame, base.RtmpHevcPacketTypeSeqHeader, 0, 0, 0}
	out = append(out, 0x01, p.ProfileByte)
	compat := make([]byte, 4)
	bele.BePutUint32(compat, p.Compat)
	out = append(out, compat...)
	out = append(out, 0x90, 0, 0, 0, 0, 0) // constraint flags
	out = append(out, p.Level)
	out = append(out, 0xf0, 0x00, 0xfc, 0xfd, 0xf8, 0xf8)
	fr := make([]byte, 2)
	bele.BePutUint16(fr, p.AvgFrameRate)
	out = append(out, fr...)
	out = append(out, p.ConstantFrameRate<<6|0x0f<<2|uint8(p.NalLengthSize-1))
	out = append(out, uint8(len(p.Arrays)))
	for _, arr := range p.Arrays {
		out = append(out, 0x80|arr.NalType)
		n := make([]byte, 2)
		bele.BePutUint16(n, uint16(len(arr.Nalus)))
		out = append(out, n...)
		for _, nalu := range arr.Nalus {
			out = appendLength16(out, nalu)
		}
	}
	return out
}

func appendLength16(out []byte, b []byte) []byte {
	l := make([]byte, 2)
	bele.BePutUint16(l, uint16(len(b)))
	out = append(out, l...)
	return append(out, b...)
}
