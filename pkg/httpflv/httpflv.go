// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package httpflv

import "github.com/q191201771/lalcodec/pkg/base"

// httpflv.go
// flv文件的读写，tag与rtmp message之间的转换

const (
	TagTypeAudio    = base.RtmpTypeIdAudio
	TagTypeVideo    = base.RtmpTypeIdVideo
	TagTypeMetadata = base.RtmpTypeIdMetadata
)

const (
	TagHeaderSize        = 11
	FlvHeaderSize        = 9 // 不包含首个 prev tag size
	prevTagSizeFieldSize = 4
)

// FlvHeader 包含首个 prev tag size，音频和视频标志位都为1
var FlvHeader = []byte{0x46, 0x4c, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00}
