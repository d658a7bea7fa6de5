// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package rtmp_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/rtmp"
	"github.com/q191201771/naza/pkg/assert"
)

func TestMetadata(t *testing.T) {
	b, err := rtmp.BuildMetadata(rtmp.MetadataParam{
		Width:         1280,
		Height:        720,
		Duration:      0,
		FrameRate:     25,
		VideoDataRate: 2500,
		VideoCodecId:  7,
		AudioDataRate: 128,
		AudioCodecId:  10,
		Profile:       "High",
		Level:         "3.1",
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, rtmp.IsMetadata(b))

	opa, err := rtmp.ParseMetadata(b)
	assert.Equal(t, nil, err)
	var keys []string
	for _, op := range opa {
		keys = append(keys, op.Key)
	}
	assert.Equal(t, []string{"Server", "width", "height", "displayWidth", "displayHeight", "duration",
		"framerate", "fps", "videodatarate", "videocodecid", "audiodatarate", "audiocodecid", "profile", "level"}, keys)
	assert.Equal(t, base.LalcodecMetadataServer, opa.Find("Server"))
	assert.Equal(t, float64(1280), opa.Find("width"))
	assert.Equal(t, float64(720), opa.Find("displayHeight"))
	assert.Equal(t, float64(0), opa.Find("duration"))
	assert.Equal(t, float64(25), opa.Find("fps"))
	assert.Equal(t, float64(7), opa.Find("videocodecid"))
	assert.Equal(t, float64(10), opa.Find("audiocodecid"))
	assert.Equal(t, "High", opa.Find("profile"))
	assert.Equal(t, "3.1", opa.Find("level"))

	// 02 000a onMetaData 03 0006 Server ...
	assert.Equal(t, "02000a6f6e4d65746144617461030006536572766572", hex.EncodeToString(b[:22]))
	assert.Equal(t, []byte{0, 0, 9}, b[len(b)-3:])
}

func TestMetadataEnsureSdf(t *testing.T) {
	b, err := rtmp.BuildMetadata(rtmp.MetadataParam{Width: 640, Height: 360})
	assert.Equal(t, nil, err)

	wo, err := rtmp.MetadataEnsureWithoutSdf(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, b, wo)

	w, err := rtmp.MetadataEnsureWithSdf(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, "02000d40736574446174614672616d65", hex.EncodeToString(w[:16]))
	assert.Equal(t, b, w[16:])
	assert.Equal(t, true, rtmp.IsMetadata(w))

	w2, err := rtmp.MetadataEnsureWithSdf(w)
	assert.Equal(t, nil, err)
	assert.Equal(t, w, w2)

	wo, err = rtmp.MetadataEnsureWithoutSdf(w)
	assert.Equal(t, nil, err)
	assert.Equal(t, b, wo)

	// 两个string都会被跳过
	opa, err := rtmp.ParseMetadata(w)
	assert.Equal(t, nil, err)
	assert.Equal(t, float64(640), opa.Find("width"))

	_, err = rtmp.MetadataEnsureWithSdf(nil)
	assert.IsNotNil(t, err)
	_, err = rtmp.MetadataEnsureWithoutSdf([]byte{0x00})
	assert.IsNotNil(t, err)
}

func TestParseMetadata(t *testing.T) {
	// 没有前置string，直接是ecma array
	buf := &bytes.Buffer{}
	buf.Write([]byte{rtmp.Amf0TypeMarkerEcmaArray, 0, 0, 0, 2})
	buf.Write([]byte{0, 5, 'w', 'i', 'd', 't', 'h'})
	_ = rtmp.Amf0.WriteNumber(buf, 1920)
	buf.Write([]byte{0, 12})
	buf.WriteString("videocodecid")
	_ = rtmp.Amf0.WriteString(buf, "avc1")
	buf.Write(rtmp.Amf0TypeMarkerObjectEndBytes)

	opa, err := rtmp.ParseMetadata(buf.Bytes())
	assert.Equal(t, nil, err)
	assert.Equal(t, float64(1920), opa.Find("width"))
	assert.Equal(t, "avc1", opa.Find("videocodecid"))
	assert.Equal(t, false, rtmp.IsMetadata(buf.Bytes()))

	_, err = rtmp.ParseMetadata(nil)
	assert.Equal(t, base.ErrAmfTooShort, err)
	_, err = rtmp.ParseMetadata([]byte{rtmp.Amf0TypeMarkerString, 0, 9})
	assert.Equal(t, base.ErrAmfTooShort, err)
}
