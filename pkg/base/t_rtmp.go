// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"strings"

	"github.com/q191201771/naza/pkg/bele"
)

const (
	// RtmpTypeIdAudio spec-rtmp_specification_1.0.pdf
	// 7.1. Types of Messages
	RtmpTypeIdAudio    uint8 = 8
	RtmpTypeIdVideo    uint8 = 9
	RtmpTypeIdMetadata uint8 = 18 // RtmpTypeIdDataMessageAmf0

	// RtmpFrameTypeKey spec-video_file_format_spec_v10.pdf
	// Video tags
	//   VIDEODATA
	//     FrameType UB[4]
	//     CodecId   UB[4]
	//   AVCVIDEOPACKET
	//     AVCPacketType   UI8
	//     CompositionTime SI24
	//     Data            UI8[n]
	RtmpFrameTypeKey        uint8 = 1
	RtmpFrameTypeInter      uint8 = 2
	RtmpFrameTypeDisposable uint8 = 3

	RtmpCodecIdAvc  uint8 = 7
	RtmpCodecIdHevc uint8 = 12

	// RtmpAvcPacketTypeSeqHeader RtmpAvcPacketTypeNalu RtmpHevcPacketTypeSeqHeader RtmpHevcPacketTypeNalu
	// 注意，按照标准文档上描述，PacketType还有可能为2：
	// 2: AVC end of sequence (lower level NALU sequence ender is not required or supported)
	RtmpAvcPacketTypeSeqHeader  uint8 = 0
	RtmpAvcPacketTypeNalu       uint8 = 1
	RtmpHevcPacketTypeSeqHeader       = RtmpAvcPacketTypeSeqHeader
	RtmpHevcPacketTypeNalu            = RtmpAvcPacketTypeNalu

	RtmpAvcKeyFrame    = RtmpFrameTypeKey<<4 | RtmpCodecIdAvc
	RtmpHevcKeyFrame   = RtmpFrameTypeKey<<4 | RtmpCodecIdHevc
	RtmpAvcInterFrame  = RtmpFrameTypeInter<<4 | RtmpCodecIdAvc
	RtmpHevcInterFrame = RtmpFrameTypeInter<<4 | RtmpCodecIdHevc

	// RtmpSoundFormatAac spec-video_file_format_spec_v10.pdf
	// Audio tags
	//   AUDIODATA
	//     SoundFormat UB[4]
	//     SoundRate   UB[2]
	//     SoundSize   UB[1]
	//     SoundType   UB[1]
	//   AACAUDIODATA
	//     AACPacketType UI8
	//     Data          UI8[n]
	RtmpSoundFormatAac          uint8 = 10 // 注意，视频的CodecId是后4位，音频是前4位
	RtmpSoundFormatUncompressed uint8 = 16
	RtmpAacPacketTypeSeqHeader        = 0
	RtmpAacPacketTypeRaw              = 1

	RtmpVideoTagHeaderSize    = 5 // frame type + codec id, packet type, composition time
	RtmpAudioTagHeaderSizeAac = 2
)

const (
	RtmpCsidAmf   = 5
	RtmpCsidAudio = 6
	RtmpCsidVideo = 7

	Msid1 = 1
)

// audioCodecNames 下标即 SoundFormat
var audioCodecNames = []string{
	"",
	"ADPCM",
	"MP3",
	"LinearLE",
	"Nellymoser16",
	"Nellymoser8",
	"Nellymoser",
	"G711A",
	"G711U",
	"",
	"AAC",
	"Speex",
	"",
	"",
	"MP3-8K",
	"DeviceSpecific",
	"Uncompressed",
}

// videoCodecNames 下标即 CodecId
var videoCodecNames = []string{
	"",
	"Jpeg",
	"Sorenson-H263",
	"ScreenVideo",
	"On2-VP6",
	"On2-VP6-Alpha",
	"ScreenVideo2",
	"H264",
	"",
	"",
	"",
	"",
	"H265",
}

// AudioCodecName 保留值或未知的id返回空字符串
func AudioCodecName(id int) string {
	if id < 0 || id >= len(audioCodecNames) {
		return ""
	}
	return audioCodecNames[id]
}

// VideoCodecName 保留值或未知的id返回空字符串
func VideoCodecName(id int) string {
	if id < 0 || id >= len(videoCodecNames) {
		return ""
	}
	return videoCodecNames[id]
}

// 部分编码器在metadata中使用fourcc描述编码格式
var (
	audioFourccs = map[string]int{"mp4a": int(RtmpSoundFormatAac)}
	videoFourccs = map[string]int{"avc1": int(RtmpCodecIdAvc), "hvc1": int(RtmpCodecIdHevc), "hev1": int(RtmpCodecIdHevc)}
)

// AudioCodecIdOf AudioCodecName 的逆操作，同时识别fourcc，不区分大小写
func AudioCodecIdOf(name string) (int, bool) {
	return codecIdOf(name, audioCodecNames, audioFourccs)
}

// VideoCodecIdOf VideoCodecName 的逆操作，同时识别fourcc，不区分大小写
func VideoCodecIdOf(name string) (int, bool) {
	return codecIdOf(name, videoCodecNames, videoFourccs)
}

func codecIdOf(name string, names []string, fourccs map[string]int) (int, bool) {
	if name == "" {
		return 0, false
	}
	if id, ok := fourccs[strings.ToLower(name)]; ok {
		return id, true
	}
	for i, n := range names {
		if n != "" && strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

func AudioCodecTableSize() int {
	return len(audioCodecNames)
}

func VideoCodecTableSize() int {
	return len(videoCodecNames)
}

type RtmpHeader struct {
	Csid         int
	MsgLen       uint32 // 不包含header的大小
	MsgTypeId    uint8  // 8 audio 9 video 18 metadata
	MsgStreamId  int
	TimestampAbs uint32 // dts, 经过计算得到的流上的绝对时间戳，单位毫秒
}

type RtmpMsg struct {
	Header  RtmpHeader
	Payload []byte // Payload不包含Header内容
}

func (msg RtmpMsg) IsAvcKeySeqHeader() bool {
	return msg.Header.MsgTypeId == RtmpTypeIdVideo && len(msg.Payload) > 1 &&
		msg.Payload[0] == RtmpAvcKeyFrame && msg.Payload[1] == RtmpAvcPacketTypeSeqHeader
}

func (msg RtmpMsg) IsHevcKeySeqHeader() bool {
	return msg.Header.MsgTypeId == RtmpTypeIdVideo && len(msg.Payload) > 1 &&
		msg.Payload[0] == RtmpHevcKeyFrame && msg.Payload[1] == RtmpHevcPacketTypeSeqHeader
}

func (msg RtmpMsg) IsVideoKeySeqHeader() bool {
	return msg.IsAvcKeySeqHeader() || msg.IsHevcKeySeqHeader()
}

func (msg RtmpMsg) IsAvcKeyNalu() bool {
	return msg.Header.MsgTypeId == RtmpTypeIdVideo && len(msg.Payload) > 1 &&
		msg.Payload[0] == RtmpAvcKeyFrame && msg.Payload[1] == RtmpAvcPacketTypeNalu
}

func (msg RtmpMsg) IsAacSeqHeader() bool {
	return msg.Header.MsgTypeId == RtmpTypeIdAudio && len(msg.Payload) > 1 &&
		(msg.Payload[0]>>4) == RtmpSoundFormatAac && msg.Payload[1] == RtmpAacPacketTypeSeqHeader
}

func (msg RtmpMsg) VideoCodecId() uint8 {
	return msg.Payload[0] & 0xF
}

func (msg RtmpMsg) AudioCodecId() uint8 {
	return msg.Payload[0] >> 4
}

func (msg RtmpMsg) Clone() (ret RtmpMsg) {
	ret.Header = msg.Header
	ret.Payload = make([]byte, len(msg.Payload))
	copy(ret.Payload, msg.Payload)
	return
}

func (msg RtmpMsg) Dts() uint32 {
	return msg.Header.TimestampAbs
}

// Pts
//
// 注意，只有视频才能调用该函数获取pts，音频的dts和pts都直接使用 RtmpMsg.Header.TimestampAbs
//
func (msg RtmpMsg) Pts() uint32 {
	return msg.Header.TimestampAbs + bele.BeUint24(msg.Payload[2:])
}
