// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
)

type ApiStatCodecResp struct {
	base.ApiRespBasic
	Data *StatCodec `json:"data"`
}

type ApiStatAllCodecResp struct {
	base.ApiRespBasic
	Data struct {
		Sessions []StatCodec `json:"sessions"`
	} `json:"data"`
}

type ApiCtrlKickSessionReq struct {
	SessionId string `json:"session_id" binding:"required"`
}

// HttpApiServer 查询各session的编码参数
type HttpApiServer struct {
	addr string
	sm   *SessionManager

	router *gin.Engine
	srv    *http.Server
	ln     net.Listener
}

func NewHttpApiServer(config *Config, sm *SessionManager) *HttpApiServer {
	h := &HttpApiServer{
		addr: config.HttpApiConfig.Addr,
		sm:   sm,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		base.AddCorsHeaders(c.Writer)
		c.Writer.Header().Set("Server", base.LalcodecHttpApiServer)
		c.Next()
	})
	router.Use(gin.Recovery())
	if config.PprofConfig.Enable {
		pprof.Register(router)
	}

	router.GET("/api/stat/codec_info", h.statCodecInfoHandler)
	router.GET("/api/stat/all_codec", h.statAllCodecHandler)
	router.GET("/api/stat/codec/:session_id", h.statCodecHandler)
	router.POST("/api/ctrl/kick_session", h.ctrlKickSessionHandler)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, base.ApiNotFoundResp)
	})

	h.router = router
	h.srv = &http.Server{Handler: router}
	return h
}

// Handler 测试时可以直接配合 httptest 使用，不需要监听端口
func (h *HttpApiServer) Handler() http.Handler {
	return h.router
}

func (h *HttpApiServer) Listen() (err error) {
	if h.ln, err = net.Listen("tcp", h.addr); err != nil {
		return
	}
	nazalog.Infof("start http api server listen. addr=%s", h.addr)
	return
}

// RunLoop 阻塞直到 Dispose 被调用
func (h *HttpApiServer) RunLoop() error {
	err := h.srv.Serve(h.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (h *HttpApiServer) Dispose(ctx context.Context) error {
	return h.srv.Shutdown(ctx)
}

func (h *HttpApiServer) statCodecInfoHandler(c *gin.Context) {
	var v base.ApiStatCodecInfoResp
	v.ErrorCode = base.ErrorCodeSucc
	v.Desp = base.DespSucc
	v.Data = base.LalcodecInfo{
		BinInfo:         bininfo.StringifySingleLine(),
		LalcodecVersion: base.LalcodecVersion,
		ApiVersion:      base.HttpApiVersion,
		ConfVersion:     base.ConfVersion,
		StartTime:       base.StartTime(),
	}
	c.JSON(http.StatusOK, v)
}

func (h *HttpApiServer) statAllCodecHandler(c *gin.Context) {
	var v ApiStatAllCodecResp
	v.ErrorCode = base.ErrorCodeSucc
	v.Desp = base.DespSucc
	v.Data.Sessions = h.sm.Snapshot()
	c.JSON(http.StatusOK, v)
}

func (h *HttpApiServer) statCodecHandler(c *gin.Context) {
	var v ApiStatCodecResp

	sessionId := c.Param("session_id")
	if sessionId == "" {
		v.ErrorCode = base.ErrorCodeParamMissing
		v.Desp = base.DespParamMissing
		c.JSON(http.StatusOK, v)
		return
	}

	v.Data = h.sm.StatCodec(sessionId)
	if v.Data == nil {
		v.ErrorCode = base.ErrorCodeSessionNotFound
		v.Desp = base.DespSessionNotFound
		c.JSON(http.StatusOK, v)
		return
	}

	v.ErrorCode = base.ErrorCodeSucc
	v.Desp = base.DespSucc
	c.JSON(http.StatusOK, v)
}

func (h *HttpApiServer) ctrlKickSessionHandler(c *gin.Context) {
	var v base.ApiRespBasic
	var info ApiCtrlKickSessionReq

	if err := c.ShouldBindJSON(&info); err != nil {
		nazalog.Warnf("http api kick session error. err=%+v", err)
		v.ErrorCode = base.ErrorCodeParamMissing
		v.Desp = base.DespParamMissing
		c.JSON(http.StatusOK, v)
		return
	}
	nazalog.Infof("http api kick session. req info=%+v", info)

	if err := h.sm.Remove(info.SessionId); err != nil {
		v.ErrorCode = base.ErrorCodeSessionNotFound
		v.Desp = base.DespSessionNotFound
		c.JSON(http.StatusOK, v)
		return
	}
	v.ErrorCode = base.ErrorCodeSucc
	v.Desp = base.DespSucc
	c.JSON(http.StatusOK, v)
}
