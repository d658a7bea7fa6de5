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

var baseSps = innertest.SpsParam{
	ProfileIdc:                  66,
	LevelIdc:                    30,
	NumRefFrames:                1,
	PicWidthInMbsMinusOne:       10,
	PicHeightInMapUnitsMinusOne: 10,
	FrameMbsOnly:                true,
}

func TestParseNaluType(t *testing.T) {
	assert.Equal(t, avc.NaluTypeSps, avc.ParseNaluType(0x67))
	assert.Equal(t, avc.NaluTypePps, avc.ParseNaluType(0x68))
	assert.Equal(t, avc.NaluTypeIdrSlice, avc.ParseNaluType(0x65))
	assert.Equal(t, "SPS", avc.ParseNaluTypeReadable(0x27))
	assert.Equal(t, "unknown", avc.ParseNaluTypeReadable(0x7f))
	assert.Equal(t, true, avc.IsParamSet(0x67))
	assert.Equal(t, true, avc.IsParamSet(0x68))
	assert.Equal(t, false, avc.IsParamSet(0x65))
	assert.Equal(t, false, avc.IsParamSet(0x06))
}

func TestIterateNaluAvcc(t *testing.T) {
	sps := innertest.BuildSps(baseSps)
	for _, nalLengthSize := range []int{1, 2, 3, 4} {
		nals := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, nalLengthSize, sps, []byte{}, innertest.Pps, innertest.IdrSlice)
		var out [][]byte
		err := avc.IterateNaluAvcc(nals[base.RtmpVideoTagHeaderSize:], nalLengthSize, func(nal []byte) {
			out = append(out, nal)
		})
		assert.Equal(t, nil, err)
		assert.Equal(t, [][]byte{sps, innertest.Pps, innertest.IdrSlice}, out)
	}

	nals := innertest.BuildAvcNalus(base.RtmpFrameTypeKey, 4, innertest.IdrSlice)
	err := avc.IterateNaluAvcc(nals[base.RtmpVideoTagHeaderSize:len(nals)-1], 4, func(nal []byte) {})
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))

	err = avc.IterateNaluAvcc(nals, 5, func(nal []byte) {})
	assert.Equal(t, base.ErrAvcNalLengthSize, err)
}

func TestParseSeqHeader(t *testing.T) {
	golden := []struct {
		name   string
		modify func(p *innertest.SpsParam)
		width  uint32
		height uint32
	}{
		{"baseline", func(p *innertest.SpsParam) {}, 176, 176},
		{"crop", func(p *innertest.SpsParam) {
			p.FrameCropping = true
			p.CropLeft = 1
			p.CropRight = 1
		}, 172, 176},
		{"crop top bottom", func(p *innertest.SpsParam) {
			p.FrameCropping = true
			p.CropBottom = 4
		}, 176, 168},
		{"field", func(p *innertest.SpsParam) {
			p.FrameMbsOnly = false
		}, 176, 352},
		{"high", func(p *innertest.SpsParam) {
			p.ProfileIdc = 100
			p.ChromaFormatIdc = 1
		}, 176, 176},
		{"high scaling matrix", func(p *innertest.SpsParam) {
			p.ProfileIdc = 100
			p.ChromaFormatIdc = 1
			p.ScalingMatrixPresent = true
		}, 176, 176},
		{"high444 scaling matrix", func(p *innertest.SpsParam) {
			p.ProfileIdc = 244
			p.ChromaFormatIdc = 3
			p.ScalingMatrixPresent = true
		}, 176, 176},
		{"poc type 1", func(p *innertest.SpsParam) {
			p.PicOrderCntType = 1
			p.OffsetForRefFrame = []uint32{1, 2, 3}
		}, 176, 176},
		{"poc type 2", func(p *innertest.SpsParam) {
			p.PicOrderCntType = 2
		}, 176, 176},
		{"1080p", func(p *innertest.SpsParam) {
			p.PicWidthInMbsMinusOne = 119
			p.PicHeightInMapUnitsMinusOne = 67
			p.FrameCropping = true
			p.CropBottom = 4
			p.NumRefFrames = 4
		}, 1920, 1080},
	}

	for _, item := range golden {
		p := baseSps
		item.modify(&p)
		sps := innertest.BuildSps(p)
		payload := innertest.BuildAvcSeqHeader(p.ProfileIdc, 0xc0, p.LevelIdc, 4, sps, innertest.Pps)

		var ctx avc.Context
		err := avc.ParseSeqHeader(payload, &ctx)
		assert.Equal(t, nil, err, item.name)
		assert.Equal(t, p.ProfileIdc, ctx.Profile, item.name)
		assert.Equal(t, uint8(0xc0), ctx.Compat, item.name)
		assert.Equal(t, p.LevelIdc, ctx.Level, item.name)
		assert.Equal(t, 4, ctx.NalLengthSize, item.name)
		assert.Equal(t, p.NumRefFrames, ctx.RefFrames, item.name)
		assert.Equal(t, item.width, ctx.Width, item.name)
		assert.Equal(t, item.height, ctx.Height, item.name)
	}
}

func TestParseSeqHeader_NalLengthSize(t *testing.T) {
	sps := innertest.BuildSps(baseSps)
	for _, nalLengthSize := range []int{1, 2, 3, 4} {
		var ctx avc.Context
		err := avc.ParseSeqHeader(innertest.BuildAvcSeqHeader(66, 0, 30, nalLengthSize, sps, innertest.Pps), &ctx)
		assert.Equal(t, nil, err)
		assert.Equal(t, nalLengthSize, ctx.NalLengthSize)
	}
}

func TestParseSeqHeader_Truncated(t *testing.T) {
	prev := avc.Context{Profile: 77, Compat: 0x40, Level: 31, NalLengthSize: 2, RefFrames: 3, Width: 640, Height: 360}
	sps := innertest.BuildSps(baseSps)

	// 长度字段超过剩余数据
	payload := innertest.BuildAvcSeqHeader(66, 0xc0, 30, 4, sps, innertest.Pps)
	ctx := prev
	err := avc.ParseSeqHeader(payload[:16], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	assert.Equal(t, prev, ctx)

	// sps本身被截断，长度字段与之匹配
	payload = innertest.BuildAvcSeqHeader(66, 0xc0, 30, 4, sps[:6], innertest.Pps)
	err = avc.ParseSeqHeader(payload, &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, prev, ctx)

	// 只有 numOfSps，没有sps长度
	payload = []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01, 0x42, 0xc0, 0x1e, 0xff, 0xe1}
	err = avc.ParseSeqHeader(payload, &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	assert.Equal(t, prev, ctx)

	err = avc.ParseSeqHeader(payload[:10], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	assert.Equal(t, prev, ctx)
}

func TestParseSeqHeader_NoSps(t *testing.T) {
	prev := avc.Context{RefFrames: 3, Width: 640, Height: 360}

	ctx := prev
	payload := []byte{0x17, 0x00, 0x00, 0x00, 0x00, 0x01, 0x64, 0x00, 0x28, 0xfd, 0xe0}
	err := avc.ParseSeqHeader(payload, &ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, avc.Context{Profile: 100, Level: 40, NalLengthSize: 2, RefFrames: 3, Width: 640, Height: 360}, ctx)

	// sps的nal header不是0x67
	sps := innertest.BuildSps(baseSps)
	sps[0] = 0x27
	ctx = prev
	err = avc.ParseSeqHeader(innertest.BuildAvcSeqHeader(66, 0xc0, 30, 4, sps, innertest.Pps), &ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, avc.Context{Profile: 66, Compat: 0xc0, Level: 30, NalLengthSize: 4, RefFrames: 3, Width: 640, Height: 360}, ctx)
}

func TestParseSps_InvalidCrop(t *testing.T) {
	p := baseSps
	p.FrameCropping = true
	p.CropLeft = 100
	var ctx avc.Context
	err := avc.ParseSps(innertest.BuildSps(p), &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrAvc))
	assert.Equal(t, avc.Context{}, ctx)
}
