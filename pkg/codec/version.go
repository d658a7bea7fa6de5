// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package codec

import "github.com/q191201771/naza/pkg/nazaatomic"

// VersionGenerator metadata版本号生成器
//
// 返回值严格递增，永远不会返回0，溢出后从1重新开始。
// 由使用方显式创建，一般整个进程持有一个，供所有 Context 共享。
//
type VersionGenerator struct {
	v nazaatomic.Uint32
}

// NewVersionGenerator
//
// @param start: 下一次 Next 返回 start+1（如果 start+1 为0，则返回1）
//
func NewVersionGenerator(start uint32) *VersionGenerator {
	g := &VersionGenerator{}
	g.v.Store(start)
	return g
}

func (g *VersionGenerator) Next() uint32 {
	for {
		if v := g.v.Increment(); v != 0 {
			return v
		}
	}
}
