// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package innertest

// BitBuilder 单元测试中用于逐位构造码流
type BitBuilder struct {
	bits []uint8
}

func (bb *BitBuilder) WriteBit(v uint8) {
	bb.bits = append(bb.bits, v&1)
}

func (bb *BitBuilder) WriteFlag(v bool) {
	if v {
		bb.WriteBit(1)
	} else {
		bb.WriteBit(0)
	}
}

// WriteBits 写入 v 的低 n 位，高位在前
func (bb *BitBuilder) WriteBits(n uint, v uint64) {
	for i := int(n) - 1; i >= 0; i-- {
		bb.WriteBit(uint8(v >> uint(i)))
	}
}

// WriteGolomb 写入无符号指数哥伦布编码 ue(v)
func (bb *BitBuilder) WriteGolomb(v uint32) {
	x := uint64(v) + 1
	var m uint
	for t := x; t > 0; t >>= 1 {
		m++
	}
	bb.WriteBits(m-1, 0)
	bb.WriteBits(m, x)
}

func (bb *BitBuilder) WriteBytes(b []byte) {
	for _, c := range b {
		bb.WriteBits(8, uint64(c))
	}
}

func (bb *BitBuilder) BitLen() int {
	return len(bb.bits)
}

// Bytes 不足整字节的部分补0
func (bb *BitBuilder) Bytes() []byte {
	out := make([]byte, (len(bb.bits)+7)/8)
	for i, v := range bb.bits {
		out[i/8] |= v << uint(7-i%8)
	}
	return out
}
