// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// t_http_api.go
//
// http-api中与具体业务无关的部分
//

const (
	ErrorCodeSucc = 0
	DespSucc      = "succ"

	ErrorCodePageNotFound = 404
	DespPageNotFound      = "page not found"

	ErrorCodeParamMissing    = 1002
	DespParamMissing         = "param missing"
	ErrorCodeSessionNotFound = 1003
	DespSessionNotFound      = "session not found"
)

type ApiRespBasic struct {
	ErrorCode int    `json:"error_code"`
	Desp      string `json:"desp"`
}

var ApiNotFoundResp = ApiRespBasic{
	ErrorCode: ErrorCodePageNotFound,
	Desp:      DespPageNotFound,
}

type LalcodecInfo struct {
	BinInfo         string `json:"bin_info"`
	LalcodecVersion string `json:"lalcodec_version"`
	ApiVersion      string `json:"api_version"`
	ConfVersion     string `json:"conf_version"`
	StartTime       string `json:"start_time"`
}

type ApiStatCodecInfoResp struct {
	ApiRespBasic
	Data LalcodecInfo `json:"data"`
}
