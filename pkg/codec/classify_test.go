// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package codec_test

import (
	"testing"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/codec"
	"github.com/q191201771/lalcodec/pkg/innertest"
	"github.com/q191201771/naza/pkg/assert"
)

func TestClassify(t *testing.T) {
	sps := innertest.BuildSps(baseSps)
	avcId := int(base.RtmpCodecIdAvc)

	golden := []struct {
		name          string
		typeId        uint8
		payload       []byte
		videoCodecId  int
		nalLengthSize int
		kind          codec.HeaderKind
	}{
		{"aac seq header", base.RtmpTypeIdAudio, []byte{0xaf, 0x00, 0x12, 0x10}, 0, 0, codec.HeaderKindExplicit},
		{"aac raw", base.RtmpTypeIdAudio, []byte{0xaf, 0x01, 0x21}, 0, 0, codec.HeaderKindRawMedia},
		{"too short", base.RtmpTypeIdVideo, []byte{0x17}, avcId, 4, codec.HeaderKindRawMedia},
		{"avc seq header", base.RtmpTypeIdVideo, innertest.BuildAvcSeqHeader(66, 0, 30, 4, sps, innertest.Pps), avcId, 0, codec.HeaderKindExplicit},
		{"hevc seq header", base.RtmpTypeIdVideo, []byte{0x1c, 0x00, 0x00, 0x00, 0x00}, int(base.RtmpCodecIdHevc), 0, codec.HeaderKindExplicit},
		{"combined", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps, innertest.IdrSlice), avcId, 4, codec.HeaderKindCombinedNalu},
		{"combined pps first", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 2, innertest.Pps, innertest.IdrSlice), avcId, 2, codec.HeaderKindCombinedNalu},
		{"nal length size unknown", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps), avcId, 0, codec.HeaderKindRawMedia},
		{"idr only", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, innertest.IdrSlice), avcId, 4, codec.HeaderKindRawMedia},
		{"inter frame", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeInter, 4, sps, innertest.Pps), avcId, 4, codec.HeaderKindRawMedia},
		{"hevc keyframe", base.RtmpTypeIdVideo, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps), int(base.RtmpCodecIdHevc), 4, codec.HeaderKindRawMedia},
		{"audio is never combined", base.RtmpTypeIdAudio, innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps), avcId, 4, codec.HeaderKindRawMedia},
		// nal header所在位置刚好越界
		{"nal header missing", base.RtmpTypeIdVideo, []byte{0x17, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05}, avcId, 4, codec.HeaderKindRawMedia},
	}
	for _, item := range golden {
		assert.Equal(t, item.kind, codec.Classify(item.typeId, item.payload, item.videoCodecId, item.nalLengthSize), item.name)
	}

	assert.Equal(t, "CombinedNalu", codec.HeaderKindCombinedNalu.String())
	assert.Equal(t, "ExplicitHeader", codec.HeaderKindExplicit.String())
	assert.Equal(t, "RawMedia", codec.HeaderKindRawMedia.String())
}
