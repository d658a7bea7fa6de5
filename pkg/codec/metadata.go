// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package codec

import (
	"encoding/hex"
	"math"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/rtmp"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazalog"
)

// profile和level字符串的最大长度
const maxProfileLevelLength = 31

// codec id 为-1时表示保持原值
const codecIdKeep = -1

// OnMetadata
//
// 从收到的metadata中读取音视频参数，只更新metadata中存在的字段。
// 然后根据 MetaMode 重新构造（on）或原样缓存（copy）metadata，off时不缓存。
//
// @param msg: 函数调用结束后，内部不持有 msg.Payload 内存块
//
func (c *Context) OnMetadata(msg base.RtmpMsg) error {
	opa, err := rtmp.ParseMetadata(msg.Payload)
	if err != nil {
		nazalog.Warnf("parse metadata failed. err=%+v, payload=%s",
			err, hex.Dump(nazabytes.Prefix(msg.Payload, base.HexDumpMaxLength)))
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.applyMetadata(opa)

	switch c.metaMode {
	case base.MetaModeOn:
		b, err := rtmp.BuildMetadata(rtmp.MetadataParam{
			Width:         c.state.Width,
			Height:        c.state.Height,
			Duration:      c.state.Duration,
			FrameRate:     c.state.FrameRate,
			VideoDataRate: c.state.VideoDataRate,
			VideoCodecId:  c.state.VideoCodecId,
			AudioDataRate: c.state.AudioDataRate,
			AudioCodecId:  c.state.AudioCodecId,
			Profile:       c.state.Profile,
			Level:         c.state.Level,
		})
		if err != nil {
			nazalog.Errorf("build metadata failed. err=%+v", err)
			return err
		}
		c.installMetadata(b, msg.Header.TimestampAbs)
	case base.MetaModeCopy:
		// 只去掉开头的@setDataFrame，其余内容原样保留。
		// 缓存的metadata在 BootstrapMsgs 中作为 onMetaData 数据消息发给订阅者，不能以@setDataFrame开头
		b, err := rtmp.MetadataEnsureWithoutSdf(msg.Payload)
		if err != nil {
			return err
		}
		c.installMetadata(b, msg.Header.TimestampAbs)
	}
	return nil
}

func (c *Context) installMetadata(b []byte, timestamp uint32) {
	// 新buffer完整构造好之后一次性替换，持有旧buffer的订阅者不受影响
	m := newCachedBuffer(b, timestamp, c.versionGen.Next())
	c.metadata.Store(m)
	nazalog.Debugf("metadata installed. mode=%s, version=%d, len=%d", c.metaMode, m.Version, len(m.Payload))
}

// applyMetadata 按字段在metadata中出现的顺序处理，同名字段后出现的生效，framerate和fps互为别名
func (c *Context) applyMetadata(opa rtmp.ObjectPairArray) {
	s := &c.state
	for _, op := range opa {
		switch op.Key {
		case "width":
			setUint32(&s.Width, op.Value)
		case "height":
			setUint32(&s.Height, op.Value)
		case "duration":
			setUint32(&s.Duration, op.Value)
		case "framerate", "fps":
			setUint32(&s.FrameRate, op.Value)
		case "videodatarate":
			setUint32(&s.VideoDataRate, op.Value)
		case "audiodatarate":
			setUint32(&s.AudioDataRate, op.Value)
		case "videocodecid":
			if id, ok := codecIdOf(op.Value, base.VideoCodecIdOf); ok {
				s.VideoCodecId = id
			}
		case "audiocodecid":
			if id, ok := codecIdOf(op.Value, base.AudioCodecIdOf); ok {
				// 0是合法值，在flv中表示未压缩
				if id == 0 {
					id = int(base.RtmpSoundFormatUncompressed)
				}
				s.AudioCodecId = id
			}
		case "profile":
			if v, ok := op.Value.(string); ok {
				s.Profile = truncate(v, maxProfileLevelLength)
			}
		case "level":
			if v, ok := op.Value.(string); ok {
				s.Level = truncate(v, maxProfileLevelLength)
			}
		}
	}
}

func setUint32(dst *uint32, v interface{}) {
	n, ok := v.(float64)
	if !ok || math.IsNaN(n) || n < 0 || n > math.MaxUint32 {
		return
	}
	*dst = uint32(n)
}

// codecIdOf codec id可能是数字，也可能是字符串
func codecIdOf(v interface{}, idOfName func(string) (int, bool)) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t == codecIdKeep || math.IsNaN(t) || t < 0 || t > math.MaxInt32 {
			return 0, false
		}
		return int(t), true
	case string:
		return idOfName(t)
	}
	return 0, false
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
