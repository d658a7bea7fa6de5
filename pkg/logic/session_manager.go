// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package logic

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/codec"
	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazalog"
)

// StatCodec 一个session的编码参数，用于http api
type StatCodec struct {
	SessionId  string `json:"session_id"`
	AppName    string `json:"app_name"`
	StartTime  string `json:"start_time"`
	MetaMode   string `json:"meta_mode"`
	AudioCodec string `json:"audio_codec"`
	VideoCodec string `json:"video_codec"`

	codec.State

	AacSeqHeaderLen int    `json:"aac_seq_header_len"`
	AvcSeqHeaderLen int    `json:"avc_seq_header_len"`
	MetadataLen     int    `json:"metadata_len"`
	MetadataVersion uint32 `json:"metadata_version"`

	ReadBytesSum uint64 `json:"read_bytes_sum"`
	ReadBitrate  int    `json:"read_bitrate"` // kbit/s

	AudioMsgCount    uint64 `json:"audio_msg_count"`
	VideoMsgCount    uint64 `json:"video_msg_count"`
	MetadataMsgCount uint64 `json:"metadata_msg_count"`
}

// CodecSession 一路输入流
type CodecSession struct {
	sessionId string
	appName   string
	startTime string
	ctx       *codec.Context

	audioMsgCount    nazaatomic.Uint64
	videoMsgCount    nazaatomic.Uint64
	metadataMsgCount nazaatomic.Uint64

	stat    base.BasicSessionStat
	msgDump base.MsgDump
}

func (s *CodecSession) SessionId() string {
	return s.sessionId
}

func (s *CodecSession) AppName() string {
	return s.appName
}

func (s *CodecSession) Context() *codec.Context {
	return s.ctx
}

func (s *CodecSession) Stat() StatCodec {
	state := s.ctx.State()
	ret := StatCodec{
		SessionId:        s.sessionId,
		AppName:          s.appName,
		StartTime:        s.startTime,
		MetaMode:         string(s.ctx.MetaMode()),
		AudioCodec:       base.AudioCodecName(state.AudioCodecId),
		VideoCodec:       base.VideoCodecName(state.VideoCodecId),
		State:            state,
		ReadBytesSum:     s.stat.ReadBytesSum(),
		ReadBitrate:      s.stat.ReadBitrate(),
		AudioMsgCount:    s.audioMsgCount.Load(),
		VideoMsgCount:    s.videoMsgCount.Load(),
		MetadataMsgCount: s.metadataMsgCount.Load(),
	}
	if b := s.ctx.AacSeqHeader(); b != nil {
		ret.AacSeqHeaderLen = len(b.Payload)
	}
	if b := s.ctx.AvcSeqHeader(); b != nil {
		ret.AvcSeqHeaderLen = len(b.Payload)
	}
	if b := s.ctx.Metadata(); b != nil {
		ret.MetadataLen = len(b.Payload)
		ret.MetadataVersion = b.Version
	}
	return ret
}

// ---------------------------------------------------------------------------------------------------------------------

// SessionManager 管理所有session的编码参数上下文
//
// 所有session共享同一个metadata版本号生成器
//
type SessionManager struct {
	config     *Config
	versionGen *codec.VersionGenerator

	mutex    sync.Mutex
	sessions map[string]*CodecSession
}

func NewSessionManager(config *Config) *SessionManager {
	return &SessionManager{
		config:     config,
		versionGen: codec.NewVersionGenerator(0),
		sessions:   make(map[string]*CodecSession),
	}
}

// GetOrCreate 不存在时创建，appName只在创建时使用
func (sm *SessionManager) GetOrCreate(sessionId string, appName string) *CodecSession {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if s, ok := sm.sessions[sessionId]; ok {
		return s
	}

	metaMode := sm.config.MetaModeOf(appName)
	s := &CodecSession{
		sessionId: sessionId,
		appName:   appName,
		startTime: base.ReadableNowTime(),
		ctx: codec.NewContext(sm.versionGen, func(option *codec.Option) {
			option.MetaMode = metaMode
		}),
		msgDump: base.NewMsgDump(nazalog.GetGlobalLogger(), sessionId, debugDumpMaxNum),
	}
	sm.sessions[sessionId] = s
	nazalog.Infof("[%s] add codec session. app=%s, meta=%s", sessionId, appName, metaMode)
	return s
}

func (sm *SessionManager) Get(sessionId string) *CodecSession {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	return sm.sessions[sessionId]
}

// VersionGenerator 所有session共享
func (sm *SessionManager) VersionGenerator() *codec.VersionGenerator {
	return sm.versionGen
}

// Remove 删除session并释放缓存，session不存在时返回 base.ErrSessionNotFound
func (sm *SessionManager) Remove(sessionId string) error {
	sm.mutex.Lock()
	s, ok := sm.sessions[sessionId]
	delete(sm.sessions, sessionId)
	sm.mutex.Unlock()

	if !ok {
		return base.ErrSessionNotFound
	}
	s.ctx.Dispose()
	nazalog.Infof("[%s] del codec session.", sessionId)
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	return len(sm.sessions)
}

// StatCodec session不存在时返回nil
func (sm *SessionManager) StatCodec(sessionId string) *StatCodec {
	s := sm.Get(sessionId)
	if s == nil {
		return nil
	}
	ret := s.Stat()
	return &ret
}

// Snapshot 所有session的编码参数，按session id排序
func (sm *SessionManager) Snapshot() []StatCodec {
	sm.mutex.Lock()
	sessions := make([]*CodecSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mutex.Unlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].sessionId < sessions[j].sessionId
	})
	ret := make([]StatCodec, 0, len(sessions))
	for _, s := range sessions {
		ret = append(ret, s.Stat())
	}
	return ret
}

// RunLoop 定时计算码率以及关闭没有数据的session，阻塞直到ctx结束
func (sm *SessionManager) RunLoop(ctx context.Context) {
	t := time.NewTicker(1 * time.Second)
	defer t.Stop()
	var tickCount uint32
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tickCount++
			sm.Tick(tickCount)
		}
	}
}

// Tick 每秒调用一次
func (sm *SessionManager) Tick(tickCount uint32) {
	sm.mutex.Lock()
	sessions := make([]*CodecSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mutex.Unlock()

	if tickCount%calcSessionStatIntervalSec == 0 {
		for _, s := range sessions {
			s.stat.UpdateStat(calcSessionStatIntervalSec)
		}
	}

	idleSec := sm.config.CodecConfig.IdleTimeoutSec
	if idleSec > 0 && tickCount%idleSec == 0 {
		for _, s := range sessions {
			if !s.stat.IsAlive() {
				nazalog.Warnf("[%s] session timeout. idle_timeout_sec=%d", s.sessionId, idleSec)
				_ = sm.Remove(s.sessionId)
			}
		}
	}
}

// Dispose 释放所有session
func (sm *SessionManager) Dispose() {
	sm.mutex.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*CodecSession)
	sm.mutex.Unlock()

	for _, s := range sessions {
		s.ctx.Dispose()
	}
}
