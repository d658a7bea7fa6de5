// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "strings"

// LalcodecVersion 整个工程的版本号。注意，该变量由外部脚本修改维护，不要手动在代码中修改
const LalcodecVersion = "v0.1.0"

// ConfVersion 配置文件的版本号
const ConfVersion = "v0.1.0"

// HttpApiVersion HTTP-API功能的版本号
const HttpApiVersion = "v0.1.0"

var (
	LalcodecLibraryName = "lalcodec"
	LalcodecGithubRepo  = "github.com/q191201771/lalcodec"
	LalcodecGithubSite  = "https://github.com/q191201771/lalcodec"

	// LalcodecFullInfo e.g. lalcodec v0.1.0 (github.com/q191201771/lalcodec)
	LalcodecFullInfo = LalcodecLibraryName + " " + LalcodecVersion + " (" + LalcodecGithubRepo + ")"

	// LalcodecVersionDot e.g. 0.1.0
	LalcodecVersionDot string
)

var (
	// LalcodecMetadataServer 重建metadata时写入 Server 字段的值
	// e.g. lalcodec v0.1.0 (https://github.com/q191201771/lalcodec)
	LalcodecMetadataServer string

	// LalcodecHttpApiServer e.g. lalcodec/0.1.0
	LalcodecHttpApiServer string
)

func init() {
	LalcodecVersionDot = strings.TrimPrefix(LalcodecVersion, "v")
	LalcodecMetadataServer = LalcodecLibraryName + " " + LalcodecVersion + " (" + LalcodecGithubSite + ")"
	LalcodecHttpApiServer = LalcodecLibraryName + "/" + LalcodecVersionDot
}
