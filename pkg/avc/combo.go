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
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// MaxSeqHeaderLength 由关键帧中的sps，pps拼装出的seq header的最大长度
const MaxSeqHeaderLength = 256

// BuildSeqHeaderFromKeyframe 有些编码器不发送单独的seq header，而是把sps，pps放在关键帧中。
// 这个函数从这样的关键帧中提取sps，pps，拼装成rtmp avc seq header。
//
// 拼装的结果为：
//   [ftype<<4|7] [0] [0 0 0] [1] [profile] [compat] [level] [0xff] [0xe1]
//   每个sps或pps: [2字节长度] [nal header] [nal body] [0x01]
//
// 注意，0xff 使得重新解析时 nal length size 为4，与关键帧中实际使用的 nalLengthSize 无关。
//
// @param payload:       rtmp message的payload部分或者flv tag的payload部分，包含5字节的video tag头
//                       函数调用结束后，内部不持有该内存块
// @param profile, compat, level: 之前已知的值，不从sps中获取
// @param nalLengthSize: 之前的seq header中得到的nal长度字段的字节数
//
// @return out: 内存块为独立新申请；函数调用结束后，内部不持有该内存块
//              如果 payload 不是nalu类型（packet type不为1），返回 nil, nil
//
func BuildSeqHeaderFromKeyframe(payload []byte, profile, compat, level uint8, nalLengthSize int) (out []byte, err error) {
	if nalLengthSize < 1 || nalLengthSize > 4 {
		return nil, base.ErrAvcNalLengthSize
	}
	if len(payload) < 2 {
		return nil, nazaerrors.Wrap(base.NewErrShortBuffer(2, len(payload), "avc keyframe"))
	}

	frameType := payload[0] >> 4
	if frameType != base.RtmpFrameTypeKey {
		return nil, base.ErrAvcNotIdr
	}
	if payload[1] != base.RtmpAvcPacketTypeNalu {
		return nil, nil
	}
	if len(payload) < base.RtmpVideoTagHeaderSize {
		return nil, nazaerrors.Wrap(base.NewErrShortBuffer(base.RtmpVideoTagHeaderSize, len(payload), "avc keyframe"))
	}

	buf := base.NewBuffer(MaxSeqHeaderLength, MaxSeqHeaderLength)
	if err = buf.Write([]byte{
		frameType<<4 | NaluTypeSps,
		0,
		0, 0, 0, // cts
		1, // configurationVersion
		profile,
		compat,
		level,
		0xff, // reserved + lengthSizeMinusOne
		0xe1, // reserved + numOfSps
	}); err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	hasParamSet := false
	nals := payload[base.RtmpVideoTagHeaderSize:]
	pos := 0
	for len(nals)-pos >= nalLengthSize {
		length := int(readNalLength(nals[pos:], nalLengthSize))
		pos += nalLengthSize
		if length == 0 {
			continue
		}
		if pos >= len(nals) {
			break
		}
		if len(nals)-pos < length {
			err = base.NewErrShortBuffer(length, len(nals)-pos, "avc keyframe nalu")
			break
		}

		nal := nals[pos : pos+length]
		pos += length
		if !IsParamSet(nal[0]) {
			continue
		}

		// 2字节长度 + nalu + 1字节的个数，整体预留，超出上限时不写入任何内容
		var b []byte
		if b, err = buf.ReserveBytes(length + 3); err != nil {
			break
		}
		bele.BePutUint16(b, uint16(length))
		copy(b[2:], nal)
		b[length+2] = 0x01
		hasParamSet = true
	}

	if err == nil && !hasParamSet {
		err = base.ErrAvcNoParamSet
	}
	if err != nil {
		nazalog.Warnf("build avc seq header from keyframe failed. err=%+v, payload=%s",
			err, hex.Dump(nazabytes.Prefix(payload, base.HexDumpMaxLength)))
		return nil, nazaerrors.Wrap(err)
	}

	return buf.Bytes(), nil
}
