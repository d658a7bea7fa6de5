// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

// maxGolombLeadingZeroBits ue(v)的前导0个数上限，超过则结果无法用uint32表示
const maxGolombLeadingZeroBits = 31

// BitReader 在 nazabits.BitReader 的基础上做剩余位数的检查
//
// 任何一次读取如果超出了输入切片的范围，返回 ErrBitsEnd ，并且不消耗任何位。
// 上层解析遇到错误时应直接放弃本次解析，不修改已保存的状态。
//
// 只在单次解析函数内部使用，不要跨函数持有。
//
type BitReader struct {
	core  nazabits.BitReader
	avail uint
}

// NewBitReader
//
// @param b: 函数调用结束后，内部仍然持有该内存块，但不会修改它
//
func NewBitReader(b []byte) BitReader {
	return BitReader{
		core:  nazabits.NewBitReader(b),
		avail: uint(len(b)) * 8,
	}
}

// AvailBits 剩余可读的位数
func (br *BitReader) AvailBits() uint {
	return br.avail
}

func (br *BitReader) ReadBit() (uint8, error) {
	return br.ReadBits8(1)
}

func (br *BitReader) ReadBits8(n uint) (uint8, error) {
	if err := br.consume(n, 8); err != nil {
		return 0, err
	}
	return br.core.ReadBits8(n)
}

func (br *BitReader) ReadBits16(n uint) (uint16, error) {
	if err := br.consume(n, 16); err != nil {
		return 0, err
	}
	return br.core.ReadBits16(n)
}

// ReadBits 读取 n 位，n 不超过32
func (br *BitReader) ReadBits(n uint) (uint32, error) {
	if err := br.consume(n, 32); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return br.core.ReadBits32(n)
}

func (br *BitReader) ReadBits24() (uint32, error) {
	return br.ReadBits(24)
}

// ReadBits64 读取 n 位，n 不超过64，高32位和低32位分两次读取
func (br *BitReader) ReadBits64(n uint) (uint64, error) {
	if n > 64 {
		return 0, ErrBitsEnd
	}
	if n > br.avail {
		return 0, ErrBitsEnd
	}
	if n <= 32 {
		v, err := br.ReadBits(n)
		return uint64(v), err
	}
	hi, err := br.ReadBits(n - 32)
	if err != nil {
		return 0, err
	}
	lo, err := br.ReadBits(32)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// ReadBytes 读取 n 字节，返回的切片为新申请的内存块
func (br *BitReader) ReadBytes(n uint) ([]byte, error) {
	if n > br.avail/8 {
		return nil, ErrBitsEnd
	}
	out := make([]byte, n)
	for i := range out {
		v, err := br.ReadBits8(8)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (br *BitReader) SkipBits(n uint) error {
	if n > br.avail {
		return ErrBitsEnd
	}
	if n == 0 {
		return nil
	}
	br.avail -= n
	return br.core.SkipBits(n)
}

// ReadGolomb 读取无符号指数哥伦布编码 ue(v)
//
// 统计前导0的个数 n，直到遇到1，再读取 n 位后缀 s，值为 2^n - 1 + s
//
func (br *BitReader) ReadGolomb() (uint32, error) {
	var n uint
	for {
		b, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		n++
		if n > maxGolombLeadingZeroBits {
			return 0, ErrBitsGolomb
		}
	}
	suffix, err := br.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return (uint32(1)<<n - 1) + suffix, nil
}

func (br *BitReader) consume(n uint, width uint) error {
	if n > width || n > br.avail {
		return ErrBitsEnd
	}
	br.avail -= n
	return nil
}
