// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package httpflv

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

type FlvFileReader struct {
	fp *os.File
	rd *bufio.Reader
}

func (ffr *FlvFileReader) Open(filename string) (err error) {
	ffr.fp, err = os.Open(filename)
	if err != nil {
		return err
	}
	ffr.rd = bufio.NewReader(ffr.fp)
	return nil
}

// ReadFlvHeader 读取flv header以及首个 prev tag size，header中的 data offset 大于9时跳过多出的部分
func (ffr *FlvFileReader) ReadFlvHeader() ([]byte, error) {
	flvHeader := make([]byte, FlvHeaderSize)
	if _, err := io.ReadFull(ffr.rd, flvHeader); err != nil {
		return nil, err
	}
	if flvHeader[0] != 'F' || flvHeader[1] != 'L' || flvHeader[2] != 'V' {
		return nil, fmt.Errorf("%w. invalid flv signature. header=%v", base.ErrHttpflv, flvHeader)
	}
	offset := int(bele.BeUint32(flvHeader[5:]))
	if offset < FlvHeaderSize {
		return nil, fmt.Errorf("%w. invalid flv data offset. offset=%d", base.ErrHttpflv, offset)
	}
	if _, err := ffr.rd.Discard(offset - FlvHeaderSize + prevTagSizeFieldSize); err != nil {
		return nil, err
	}
	return flvHeader, nil
}

func (ffr *FlvFileReader) ReadTag() (Tag, error) {
	return ReadTag(ffr.rd)
}

func (ffr *FlvFileReader) Dispose() {
	if ffr.fp != nil {
		_ = ffr.fp.Close()
	}
}

// ReadAllTagsFromFlvFile 读取文件中所有的tag
func ReadAllTagsFromFlvFile(filename string) ([]Tag, error) {
	var tags []Tag

	var ffr FlvFileReader
	defer ffr.Dispose()
	err := ffr.Open(filename)
	if err != nil {
		return nil, err
	}
	if _, err = ffr.ReadFlvHeader(); err != nil {
		return nil, err
	}

	for {
		tag, err := ffr.ReadTag()
		if err != nil {
			if err == io.EOF {
				return tags, nil
			}
			return tags, err
		}
		tags = append(tags, tag)
	}
	// never reach here
}
