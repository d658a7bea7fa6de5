// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"fmt"

	"github.com/q191201771/naza/pkg/bele"
)

// Buffer 有容量上限的可扩容写buffer
//
// 写入会导致总长度超过上限时，返回 ErrCapacityExceeded ，并且本次写入不生效。
//
// 示例
//   写入方式1
//     buf, err := ReserveBytes(n)
//     ... // 向buf中写入内容
//
//   写入方式2
//     err := Write(buf)
//
type Buffer struct {
	core   []byte
	maxCap int
}

// NewBuffer
//
// @param initCap: 初始申请的内存大小
// @param maxCap:  写入的总长度上限
//
func NewBuffer(initCap int, maxCap int) *Buffer {
	if initCap > maxCap {
		initCap = maxCap
	}
	return &Buffer{
		core:   make([]byte, 0, initCap),
		maxCap: maxCap,
	}
}

// Bytes 所有已写入的数据，不拷贝
func (b *Buffer) Bytes() []byte {
	return b.core
}

func (b *Buffer) Len() int {
	return len(b.core)
}

// Left 距离容量上限还可以写入的大小
func (b *Buffer) Left() int {
	return b.maxCap - len(b.core)
}

// ReserveBytes 在尾部预留`n`字节并返回这段切片供调用方写入
func (b *Buffer) ReserveBytes(n int) ([]byte, error) {
	if err := b.check(n); err != nil {
		return nil, err
	}
	pos := len(b.core)
	if cap(b.core)-pos < n {
		needed := roundUpPowerOfTwo(pos + n)
		if needed > b.maxCap {
			needed = b.maxCap
		}
		core := make([]byte, pos, needed)
		copy(core, b.core)
		b.core = core
	}
	b.core = b.core[:pos+n]
	return b.core[pos:], nil
}

func (b *Buffer) Write(p []byte) error {
	buf, err := b.ReserveBytes(len(p))
	if err != nil {
		return err
	}
	copy(buf, p)
	return nil
}

func (b *Buffer) WriteByte(c byte) error {
	buf, err := b.ReserveBytes(1)
	if err != nil {
		return err
	}
	buf[0] = c
	return nil
}

func (b *Buffer) WriteBeUint16(v uint16) error {
	buf, err := b.ReserveBytes(2)
	if err != nil {
		return err
	}
	bele.BePutUint16(buf, v)
	return nil
}

// Reset 清空已写入数据，保留已申请的内存
func (b *Buffer) Reset() {
	b.core = b.core[:0]
}

func (b *Buffer) DebugString() string {
	return fmt.Sprintf("len(core)=%d, cap(core)=%d, maxCap=%d", len(b.core), cap(b.core), b.maxCap)
}

func (b *Buffer) check(n int) error {
	if n > b.Left() {
		return NewErrCapacityExceeded(n, b.Left())
	}
	return nil
}

func roundUpPowerOfTwo(n int) int {
	if n <= 2 {
		return 2
	}

	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
