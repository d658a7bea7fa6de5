// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"sync"

	"github.com/q191201771/naza/pkg/nazaatomic"
)

// BasicSessionStat 输入流的字节数统计、码率计算以及是否还有数据的检查
//
// AddReadBytes 可以和其他方法并发调用
//
type BasicSessionStat struct {
	readBytesSum nazaatomic.Uint64

	mutex            sync.Mutex
	prevReadBytesSum uint64
	readBitrate      int
	staleReadSum     *uint64
}

func (s *BasicSessionStat) AddReadBytes(n int) {
	s.readBytesSum.Add(uint64(n))
}

func (s *BasicSessionStat) ReadBytesSum() uint64 {
	return s.readBytesSum.Load()
}

// UpdateStat 计算距离上次调用期间的码率
//
// @param intervalSec: 距离上次调用的间隔，单位秒
//
func (s *BasicSessionStat) UpdateStat(intervalSec uint32) {
	if intervalSec == 0 {
		return
	}
	curr := s.readBytesSum.Load()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.readBitrate = int((curr - s.prevReadBytesSum) * 8 / 1024 / uint64(intervalSec))
	s.prevReadBytesSum = curr
}

// ReadBitrate 单位kbit/s，调用 UpdateStat 之前为0
func (s *BasicSessionStat) ReadBitrate() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.readBitrate
}

// IsAlive 距离上次调用，是否读取到了新的数据
//
// 第一次调用时总是返回true
//
func (s *BasicSessionStat) IsAlive() (readAlive bool) {
	curr := s.readBytesSum.Load()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.staleReadSum == nil {
		s.staleReadSum = new(uint64)
		*s.staleReadSum = curr
		return true
	}
	readAlive = curr != *s.staleReadSum
	*s.staleReadSum = curr
	return
}
