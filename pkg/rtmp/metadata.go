// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package rtmp

import (
	"bytes"

	"github.com/q191201771/lalcodec/pkg/base"
)

const (
	MetadataNameSetDataFrame = "@setDataFrame"
	MetadataNameOnMetaData   = "onMetaData"
)

// IsMetadata 第一个amf0字段是否为 @setDataFrame 或者 onMetaData
func IsMetadata(b []byte) bool {
	name, _, err := Amf0.ReadString(b)
	if err != nil {
		return false
	}
	return name == MetadataNameSetDataFrame || name == MetadataNameOnMetaData
}

// ParseMetadata
//
// 有的编码器在metadata前面会额外加一个或两个string（比如 @setDataFrame，onMetaData），这里通过类型判断跳过它们，
// 再读取object或ecma array。
//
// @param b: rtmp message的payload部分
//
func ParseMetadata(b []byte) (ObjectPairArray, error) {
	pos := 0
	for i := 0; i < 2; i++ {
		if len(b)-pos < 1 || (b[pos] != Amf0TypeMarkerString && b[pos] != Amf0TypeMarkerLongString) {
			break
		}
		_, l, err := Amf0.ReadString(b[pos:])
		if err != nil {
			return nil, err
		}
		pos += l
	}
	opa, _, err := Amf0.ReadObjectOrArray(b[pos:])
	return opa, err
}

// MetadataParam 重新构造metadata时使用的字段
type MetadataParam struct {
	Width         uint32
	Height        uint32
	Duration      uint32
	FrameRate     uint32
	VideoDataRate uint32
	VideoCodecId  int
	AudioDataRate uint32
	AudioCodecId  int
	Profile       string
	Level         string
}

// BuildMetadata 构造onMetaData
//
// spec-video_file_format_spec_v10.pdf
// onMetaData
//
// 包含的字段，所有字段都会写入，即使值为0：
// - Server
// - width, height, displayWidth, displayHeight
// - duration
// - framerate, fps
// - videodatarate, videocodecid
// - audiodatarate, audiocodecid
// - profile, level
//
// @return 返回的内存块为新申请的独立内存块
//
func BuildMetadata(p MetadataParam) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Amf0.WriteString(buf, MetadataNameOnMetaData); err != nil {
		return nil, err
	}

	opa := ObjectPairArray{
		{Key: "Server", Value: base.LalcodecMetadataServer},
		{Key: "width", Value: p.Width},
		{Key: "height", Value: p.Height},
		{Key: "displayWidth", Value: p.Width},
		{Key: "displayHeight", Value: p.Height},
		{Key: "duration", Value: p.Duration},
		{Key: "framerate", Value: p.FrameRate},
		{Key: "fps", Value: p.FrameRate},
		{Key: "videodatarate", Value: p.VideoDataRate},
		{Key: "videocodecid", Value: p.VideoCodecId},
		{Key: "audiodatarate", Value: p.AudioDataRate},
		{Key: "audiocodecid", Value: p.AudioCodecId},
		{Key: "profile", Value: p.Profile},
		{Key: "level", Value: p.Level},
	}
	if err := Amf0.WriteObject(buf, opa); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MetadataEnsureWithSdf
//
// 确保metadata以 @setDataFrame 开头
//
// @param b: 函数调用结束后，内部不持有该内存块
//
// @return 如果已经以 @setDataFrame 开头，直接返回 b，否则返回新申请的内存块
//
func MetadataEnsureWithSdf(b []byte) ([]byte, error) {
	v, _, err := Amf0.ReadString(b)
	if err != nil {
		return nil, err
	}
	if v == MetadataNameSetDataFrame {
		return b, nil
	}

	buf := &bytes.Buffer{}
	if err = Amf0.WriteString(buf, MetadataNameSetDataFrame); err != nil {
		return nil, err
	}
	buf.Write(b)
	return buf.Bytes(), nil
}

// MetadataEnsureWithoutSdf
//
// 确保metadata不以 @setDataFrame 开头
//
// @return 返回的切片指向 b 的内部，不拷贝
//
func MetadataEnsureWithoutSdf(b []byte) ([]byte, error) {
	v, l, err := Amf0.ReadString(b)
	if err != nil {
		return nil, err
	}
	if v == MetadataNameSetDataFrame {
		return b[l:], nil
	}
	return b, nil
}
