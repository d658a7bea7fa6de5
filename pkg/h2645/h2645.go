// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package h2645

import (
	"github.com/q191201771/lalcodec/pkg/avc"
	"github.com/q191201771/lalcodec/pkg/hevc"
	"github.com/q191201771/naza/pkg/bele"
)

// 无特殊说明的函数则同时支持h264和h265两种格式

// IterateNaluAvcc 遍历Avcc格式的nalu流，h264和h265的格式相同
func IterateNaluAvcc(nals []byte, nalLengthSize int, handler func(nal []byte)) error {
	return avc.IterateNaluAvcc(nals, nalLengthSize, handler)
}

func ParseNaluType(isH264 bool, v uint8) uint8 {
	if isH264 {
		return avc.ParseNaluType(v)
	}
	return hevc.ParseNaluType(v)
}

func ParseNaluTypeReadable(isH264 bool, v uint8) string {
	if isH264 {
		return avc.ParseNaluTypeReadable(v)
	}
	return hevc.ParseNaluTypeReadable(v)
}

// IsParamSet h264为sps，pps，h265为vps，sps，pps
func IsParamSet(isH264 bool, v uint8) bool {
	if isH264 {
		return avc.IsParamSet(v)
	}
	t := hevc.ParseNaluType(v)
	return t >= hevc.NaluTypeVps && t <= hevc.NaluTypePps
}

// JoinNaluAvcc 每个nalu前加4字节的长度
func JoinNaluAvcc(naluList ...[]byte) []byte {
	n := len(naluList)
	if n == 0 {
		return nil
	}
	n *= 4
	for _, item := range naluList {
		n += len(item)
	}
	ret := make([]byte, n)

	pos := 0
	for _, item := range naluList {
		bele.BePutUint32(ret[pos:], uint32(len(item)))
		pos += 4
		copy(ret[pos:], item)
		pos += len(item)
	}

	return ret
}
