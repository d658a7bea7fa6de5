// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc_test

import (
	"errors"
	"testing"

	"github.com/q191201771/lalcodec/pkg/avc"
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/innertest"
	"github.com/q191201771/naza/pkg/assert"
)

func TestBuildSeqHeaderFromKeyframe(t *testing.T) {
	p := baseSps
	p.FrameCropping = true
	p.CropLeft = 1
	p.CropRight = 1
	sps := innertest.BuildSps(p)

	native := innertest.BuildAvcSeqHeader(66, 0xc0, 30, 4, sps, innertest.Pps)
	var nativeCtx avc.Context
	assert.Equal(t, nil, avc.ParseSeqHeader(native, &nativeCtx))

	keyframe := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps, innertest.IdrSlice)
	out, err := avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0xc0, 30, 4)
	assert.Equal(t, nil, err)
	// 和原生的seq header相比，只多了pps后面的1字节
	assert.Equal(t, append(append([]byte{}, native...), 0x01), out)

	var ctx avc.Context
	assert.Equal(t, nil, avc.ParseSeqHeader(out, &ctx))
	assert.Equal(t, nativeCtx, ctx)
	assert.Equal(t, uint32(172), ctx.Width)
	assert.Equal(t, uint32(176), ctx.Height)
}

func TestBuildSeqHeaderFromKeyframe_NalLengthSize(t *testing.T) {
	sps := innertest.BuildSps(baseSps)
	for _, nalLengthSize := range []int{1, 2, 3} {
		keyframe := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, nalLengthSize, sps, innertest.Pps, innertest.IdrSlice)
		out, err := avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0xc0, 30, nalLengthSize)
		assert.Equal(t, nil, err)

		var ctx avc.Context
		assert.Equal(t, nil, avc.ParseSeqHeader(out, &ctx))
		assert.Equal(t, uint32(176), ctx.Width)
		// 拼装的seq header中固定写入0xff
		assert.Equal(t, 4, ctx.NalLengthSize)
	}
}

func TestBuildSeqHeaderFromKeyframe_Skip(t *testing.T) {
	sps := innertest.BuildSps(baseSps)

	// 长度为0的nalu被跳过，非sps，pps的nalu不拷贝
	keyframe := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, []byte{}, innertest.IdrSlice, sps)
	out, err := avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, nil, err)
	expected := []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01, 66, 0x00, 30, 0xff, 0xe1, 0x00, byte(len(sps))}
	expected = append(expected, sps...)
	expected = append(expected, 0x01)
	assert.Equal(t, expected, out)

	// 尾部不足一个长度字段的数据被忽略
	keyframe = append(innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps, innertest.Pps), 0x00, 0x00)
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, nil, err)

	// 尾部只有长度字段
	keyframe = append(innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, sps), 0x00, 0x00, 0x00, 0x08)
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, nil, err)
}

func TestBuildSeqHeaderFromKeyframe_NotNalu(t *testing.T) {
	out, err := avc.BuildSeqHeaderFromKeyframe([]byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01}, 66, 0, 30, 4)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(out))

	out, err = avc.BuildSeqHeaderFromKeyframe([]byte{0x17, 0x02}, 66, 0, 30, 4)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(out))
}

func TestBuildSeqHeaderFromKeyframe_Failed(t *testing.T) {
	sps := innertest.BuildSps(baseSps)

	keyframe := innertest.BuildAvcNalus(base.RtmpFrameTypeInter, 4, sps, innertest.Pps)
	_, err := avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, base.ErrAvcNotIdr, err)

	keyframe = innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, innertest.IdrSlice)
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrAvcNoParamSet))

	// nalu被截断
	keyframe = innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, innertest.Pps, sps)
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe[:len(keyframe)-1], 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))

	// 超过 MaxSeqHeaderLength
	big := make([]byte, avc.MaxSeqHeaderLength-11-2)
	big[0] = 0x67
	keyframe = innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, big)
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrCapacityExceeded))

	// 刚好不超过
	ok := make([]byte, avc.MaxSeqHeaderLength-11-3)
	ok[0] = 0x67
	keyframe = innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, ok)
	out, err := avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, nil, err)
	assert.Equal(t, avc.MaxSeqHeaderLength, len(out))

	// 多个param set累计超过
	keyframe = innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, ok[:120], ok[:120])
	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrCapacityExceeded))

	_, err = avc.BuildSeqHeaderFromKeyframe(keyframe, 66, 0, 30, 0)
	assert.Equal(t, base.ErrAvcNalLengthSize, err)

	_, err = avc.BuildSeqHeaderFromKeyframe([]byte{0x17}, 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))

	_, err = avc.BuildSeqHeaderFromKeyframe([]byte{0x17, 0x01, 0x00}, 66, 0, 30, 4)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
}
