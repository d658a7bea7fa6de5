// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package codec

import (
	"github.com/q191201771/lalcodec/pkg/avc"
	"github.com/q191201771/lalcodec/pkg/base"
)

type HeaderKind int

const (
	// HeaderKindRawMedia 普通音视频数据
	HeaderKindRawMedia HeaderKind = iota

	// HeaderKindExplicit packet type为0的seq header
	HeaderKindExplicit

	// HeaderKindCombinedNalu H264关键帧，第一个nalu是sps或pps，也即参数集和IDR放在同一个message中
	HeaderKindCombinedNalu
)

func (k HeaderKind) String() string {
	switch k {
	case HeaderKindExplicit:
		return "ExplicitHeader"
	case HeaderKindCombinedNalu:
		return "CombinedNalu"
	}
	return "RawMedia"
}

// Classify 判断一个音视频message是否携带seq header
//
// @param typeId:        base.RtmpTypeIdAudio 或 base.RtmpTypeIdVideo
// @param payload:       rtmp message的payload部分
// @param videoCodecId:  当前已知的视频编码格式
// @param nalLengthSize: 从之前的seq header中解析出的nalu长度字段字节数，0表示未知
//
func Classify(typeId uint8, payload []byte, videoCodecId int, nalLengthSize int) HeaderKind {
	if len(payload) < 2 {
		return HeaderKindRawMedia
	}
	if payload[1] == 0 {
		return HeaderKindExplicit
	}
	if typeId != base.RtmpTypeIdVideo ||
		videoCodecId != int(base.RtmpCodecIdAvc) ||
		nalLengthSize == 0 ||
		payload[0]>>4 != base.RtmpFrameTypeKey {
		return HeaderKindRawMedia
	}
	pos := base.RtmpVideoTagHeaderSize + nalLengthSize
	if len(payload) <= pos {
		return HeaderKindRawMedia
	}
	if avc.IsParamSet(payload[pos]) {
		return HeaderKindCombinedNalu
	}
	return HeaderKindRawMedia
}
