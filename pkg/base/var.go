// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// ----- codec --------------------
var (
	// HexDumpMaxLength 解析失败时日志中dump的payload最大字节数
	HexDumpMaxLength = 128
)

// MetaMode 处理metadata的策略
type MetaMode string

const (
	// MetaModeOff 不缓存、不转发metadata
	MetaModeOff MetaMode = "off"

	// MetaModeOn 根据解析出的音视频参数重新构造metadata
	MetaModeOn MetaMode = "on"

	// MetaModeCopy 原样缓存收到的metadata
	MetaModeCopy MetaMode = "copy"

	DefaultMetaMode = MetaModeOn
)

func ParseMetaMode(s string) (MetaMode, error) {
	switch MetaMode(s) {
	case MetaModeOff, MetaModeOn, MetaModeCopy:
		return MetaMode(s), nil
	}
	return "", ErrInvalidMetaMode
}
