// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package httpflv

import (
	"io"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

type TagHeader struct {
	Type      uint8  // type
	DataSize  uint32 // body大小，不包含 header 和 prev tag size 字段
	Timestamp uint32 // 绝对时间戳，单位毫秒
	StreamId  uint32 // always 0
}

type Tag struct {
	Header TagHeader
	Raw    []byte // 结构为 (11字节的 tag header) + (body) + (4字节的 prev tag size)
}

func (tag *Tag) Payload() []byte {
	return tag.Raw[TagHeaderSize : len(tag.Raw)-prevTagSizeFieldSize]
}

func (tag *Tag) IsMetadata() bool {
	return tag.Header.Type == TagTypeMetadata
}

func (tag *Tag) IsVideoKeySeqHeader() bool {
	return tag.ToRtmpMsg().IsVideoKeySeqHeader()
}

func (tag *Tag) IsAacSeqHeader() bool {
	return tag.ToRtmpMsg().IsAacSeqHeader()
}

// ToRtmpMsg
//
// @return 注意，返回的 RtmpMsg.Payload 指向 tag.Raw 的内部
//
func (tag *Tag) ToRtmpMsg() base.RtmpMsg {
	var csid int
	switch tag.Header.Type {
	case TagTypeAudio:
		csid = base.RtmpCsidAudio
	case TagTypeVideo:
		csid = base.RtmpCsidVideo
	default:
		csid = base.RtmpCsidAmf
	}
	return base.RtmpMsg{
		Header: base.RtmpHeader{
			Csid:         csid,
			MsgLen:       tag.Header.DataSize,
			MsgTypeId:    tag.Header.Type,
			MsgStreamId:  base.Msid1,
			TimestampAbs: tag.Header.Timestamp,
		},
		Payload: tag.Payload(),
	}
}

func (tag *Tag) ModTagTimestamp(timestamp uint32) {
	tag.Header.Timestamp = timestamp

	bele.BePutUint24(tag.Raw[4:], timestamp&0xffffff)
	tag.Raw[7] = byte(timestamp >> 24)
}

// PackHttpflvTag 打包一个序列化后的 tag 二进制buffer，包含 tag header，body，prev tag size
func PackHttpflvTag(t uint8, timestamp uint32, in []byte) []byte {
	out := make([]byte, TagHeaderSize+len(in)+prevTagSizeFieldSize)
	out[0] = t
	bele.BePutUint24(out[1:], uint32(len(in)))
	bele.BePutUint24(out[4:], timestamp&0xffffff)
	out[7] = uint8(timestamp >> 24)
	out[8] = 0
	out[9] = 0
	out[10] = 0
	copy(out[11:], in)
	bele.BePutUint32(out[TagHeaderSize+len(in):], uint32(TagHeaderSize+len(in)))
	return out
}

// RtmpMsg2FlvTag rtmp message转换为flv tag，内存块为独立新申请
func RtmpMsg2FlvTag(msg base.RtmpMsg) Tag {
	return Tag{
		Header: TagHeader{
			Type:      msg.Header.MsgTypeId,
			DataSize:  uint32(len(msg.Payload)),
			Timestamp: msg.Header.TimestampAbs,
		},
		Raw: PackHttpflvTag(msg.Header.MsgTypeId, msg.Header.TimestampAbs, msg.Payload),
	}
}

func parseTagHeader(rawHeader []byte) TagHeader {
	var h TagHeader
	h.Type = rawHeader[0]
	h.DataSize = bele.BeUint24(rawHeader[1:])
	h.Timestamp = (uint32(rawHeader[7]) << 24) + bele.BeUint24(rawHeader[4:])
	h.StreamId = bele.BeUint24(rawHeader[8:])
	return h
}

// ReadTag 从 rd 中读取一个完整的tag
//
// @return err: 如果刚好在tag边界结束，返回io.EOF；tag不完整时返回io.ErrUnexpectedEOF
//
func ReadTag(rd io.Reader) (tag Tag, err error) {
	rawHeader := make([]byte, TagHeaderSize)
	if _, err = io.ReadFull(rd, rawHeader); err != nil {
		return
	}
	header := parseTagHeader(rawHeader)

	needed := int(header.DataSize) + prevTagSizeFieldSize
	tag.Header = header
	tag.Raw = make([]byte, TagHeaderSize+needed)
	copy(tag.Raw, rawHeader)

	if _, err = io.ReadFull(rd, tag.Raw[TagHeaderSize:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}
	return
}

func (tag *Tag) clone() (out Tag) {
	out.Header = tag.Header
	out.Raw = append(out.Raw, tag.Raw...)
	return
}
