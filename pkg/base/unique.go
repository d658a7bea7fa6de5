// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/unique"

const (
	UkPreCodecSession = "CODEC"
	UkPreFlvFile      = "FLVFILE"
)

// GenUkCodecSession 上层没有提供session id时，为一路流生成唯一id
func GenUkCodecSession() string {
	return siUkCodecSession.GenUniqueKey()
}

// GenUkFlvFile 读取flv文件模拟推流时使用的session id
func GenUkFlvFile() string {
	return siUkFlvFile.GenUniqueKey()
}

var (
	siUkCodecSession *unique.SingleGenerator
	siUkFlvFile      *unique.SingleGenerator
)

func init() {
	siUkCodecSession = unique.NewSingleGenerator(UkPreCodecSession)
	siUkFlvFile = unique.NewSingleGenerator(UkPreFlvFile)
}
