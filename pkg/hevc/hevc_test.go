// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package hevc_test

import (
	"errors"
	"testing"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/hevc"
	"github.com/q191201771/lalcodec/pkg/innertest"
	"github.com/q191201771/naza/pkg/assert"
)

var (
	vps = []byte{0x40, 0x01, 0x0c, 0x01, 0xff, 0xff, 0x01, 0x60, 0x00, 0x00, 0x03, 0x00, 0x90, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x5d, 0x95, 0x98, 0x09}
	sps = []byte{0x42, 0x01, 0x01, 0x01, 0x60, 0x00, 0x00, 0x03, 0x00, 0x90, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x5d, 0xa0, 0x02, 0x80, 0x80, 0x2d, 0x16, 0x59, 0x59, 0xa4, 0x93, 0x2b, 0xc0, 0x5a, 0x70, 0x80, 0x00, 0x01, 0xf4, 0x80, 0x00, 0x3a, 0x98, 0x04}
	pps = []byte{0x44, 0x01, 0xc1, 0x72, 0xb4, 0x62, 0x40}
)

func buildParam() innertest.HevcParam {
	return innertest.HevcParam{
		ProfileByte:       0x01,
		Compat:            0x60000000,
		Level:             93,
		AvgFrameRate:      25,
		ConstantFrameRate: 1,
		NalLengthSize:     4,
		Arrays: []innertest.HevcArray{
			{NalType: hevc.NaluTypeVps, Nalus: [][]byte{vps}},
			{NalType: hevc.NaluTypeSps, Nalus: [][]byte{sps}},
			{NalType: hevc.NaluTypePps, Nalus: [][]byte{pps}},
		},
	}
}

func TestParseNaluType(t *testing.T) {
	assert.Equal(t, hevc.NaluTypeVps, hevc.ParseNaluType(vps[0]))
	assert.Equal(t, hevc.NaluTypeSps, hevc.ParseNaluType(sps[0]))
	assert.Equal(t, hevc.NaluTypePps, hevc.ParseNaluType(pps[0]))
	assert.Equal(t, "I", hevc.ParseNaluTypeReadable(0x26))
	assert.Equal(t, "SEI", hevc.ParseNaluTypeReadable(0x50))
	assert.Equal(t, "unknown", hevc.ParseNaluTypeReadable(0x7e))
}

func TestParseSeqHeader(t *testing.T) {
	payload := innertest.BuildHevcSeqHeader(buildParam())

	var ctx hevc.Context
	err := hevc.ParseSeqHeader(payload, &ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, hevc.Context{
		Profile:           0,
		Compat:            0x60000000,
		Level:             93,
		FrameRate:         25,
		ConstantFrameRate: 1,
		NalLengthSize:     4,
		NumOfArrays:       3,
		NumOfNalus:        3,
	}, ctx)

	p := buildParam()
	p.NalLengthSize = 2
	p.Arrays = append(p.Arrays, innertest.HevcArray{NalType: hevc.NaluTypeSei, Nalus: [][]byte{{0x4e, 0x01}, {}}})
	err = hevc.ParseSeqHeader(innertest.BuildHevcSeqHeader(p), &ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, ctx.NalLengthSize)
	assert.Equal(t, 4, ctx.NumOfArrays)
	assert.Equal(t, 5, ctx.NumOfNalus)
}

func TestParseSeqHeader_ProfileArithmetic(t *testing.T) {
	// 不管profile字节是什么值，结果都是0
	for _, b := range []uint8{0x00, 0x01, 0x02, 0x1f, 0x21, 0xff} {
		p := buildParam()
		p.ProfileByte = b
		ctx := hevc.Context{Profile: 9}
		err := hevc.ParseSeqHeader(innertest.BuildHevcSeqHeader(p), &ctx)
		assert.Equal(t, nil, err)
		assert.Equal(t, uint8(0), ctx.Profile)
	}
}

func TestParseSeqHeader_Truncated(t *testing.T) {
	payload := innertest.BuildHevcSeqHeader(buildParam())

	// 在compat字段被截断，profile已经写入，其他字段保持原值
	ctx := hevc.Context{Profile: 9, Compat: 123, Level: 1, NalLengthSize: 1}
	err := hevc.ParseSeqHeader(payload[:10], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, hevc.Context{Profile: 0, Compat: 123, Level: 1, NalLengthSize: 1}, ctx)

	// 在avgFrameRate字段被截断，compat和level已经写入，帧率保持原值
	ctx = hevc.Context{FrameRate: 30, ConstantFrameRate: 2, NalLengthSize: 2}
	err = hevc.ParseSeqHeader(payload[:25], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, hevc.Context{
		Compat:            0x60000000,
		Level:             93,
		FrameRate:         30,
		ConstantFrameRate: 2,
		NalLengthSize:     2,
	}, ctx)

	// 在level字段之前被截断
	ctx = hevc.Context{Level: 5}
	err = hevc.ParseSeqHeader(payload[:17], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, uint32(0x60000000), ctx.Compat)
	assert.Equal(t, uint8(5), ctx.Level)

	// 在最后一个nalu被截断，前面的字段都已经写入
	ctx = hevc.Context{}
	err = hevc.ParseSeqHeader(payload[:len(payload)-1], &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, uint32(0x60000000), ctx.Compat)
	assert.Equal(t, uint8(93), ctx.Level)
	assert.Equal(t, uint32(25), ctx.FrameRate)
	assert.Equal(t, 4, ctx.NalLengthSize)
	assert.Equal(t, 3, ctx.NumOfArrays)
	assert.Equal(t, 2, ctx.NumOfNalus)

	ctx = hevc.Context{Level: 7}
	err = hevc.ParseSeqHeader([]byte{0x1c, 0x00, 0x00}, &ctx)
	assert.Equal(t, true, errors.Is(err, base.ErrBitsEnd))
	assert.Equal(t, hevc.Context{Level: 7}, ctx)
}
