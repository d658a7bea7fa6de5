// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

var NaluTypeMapping = map[uint8]string{
	NaluTypeSlice:    "SLICE",
	NaluTypeIdrSlice: "IDR",
	NaluTypeSei:      "SEI",
	NaluTypeSps:      "SPS",
	NaluTypePps:      "PPS",
	NaluTypeAud:      "AUD",
	NaluTypeFd:       "FD",
}

const (
	NaluTypeSlice    uint8 = 1
	NaluTypeIdrSlice uint8 = 5
	NaluTypeSei      uint8 = 6
	NaluTypeSps      uint8 = 7
	NaluTypePps      uint8 = 8
	NaluTypeAud      uint8 = 9  // Access Unit Delimiter
	NaluTypeFd       uint8 = 12 // Filler Data
)

// SpsNaluHeader forbidden_zero_bit=0, nal_ref_idc=3, nal_unit_type=7
const SpsNaluHeader = 0x67

// ParseNaluType
//
// @param v: nalu的第1个字节
//
func ParseNaluType(v uint8) uint8 {
	return v & 0x1f
}

func ParseNaluTypeReadable(v uint8) string {
	b, ok := NaluTypeMapping[ParseNaluType(v)]
	if !ok {
		return "unknown"
	}
	return b
}

// IsParamSet nal type 是否在 [SPS, PPS] 区间内
func IsParamSet(v uint8) bool {
	t := ParseNaluType(v)
	return t >= NaluTypeSps && t <= NaluTypePps
}

// IterateNaluAvcc 遍历Avcc格式的nalu流，每个nalu前有 nalLengthSize 字节的长度
//
// 长度为0的nalu会被跳过，不回调。
// 尾部不足一个完整长度字段的数据被忽略；长度字段所声明的长度超出剩余数据时返回错误。
//
// @param nals: 函数调用结束后，内部不持有该内存块
//
// @param handler: 回调参数nal指向 nals 内部，回调结束后不应继续持有
//
func IterateNaluAvcc(nals []byte, nalLengthSize int, handler func(nal []byte)) error {
	if nalLengthSize < 1 || nalLengthSize > 4 {
		return base.ErrAvcNalLengthSize
	}

	pos := 0
	for len(nals)-pos >= nalLengthSize {
		length := int(readNalLength(nals[pos:], nalLengthSize))
		pos += nalLengthSize
		if length == 0 {
			continue
		}
		if len(nals)-pos < length {
			return base.NewErrShortBuffer(length, len(nals)-pos, "avcc nalu")
		}
		handler(nals[pos : pos+length])
		pos += length
	}
	return nil
}

func readNalLength(b []byte, nalLengthSize int) uint32 {
	switch nalLengthSize {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(bele.BeUint16(b))
	case 3:
		return bele.BeUint24(b)
	}
	return bele.BeUint32(b)
}
