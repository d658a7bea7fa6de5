// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrShortBuffer      = errors.New("lalcodec: buffer too short")
	ErrCapacityExceeded = errors.New("lalcodec: capacity exceeded")
)

func NewErrShortBuffer(need, actual int, msg string) error {
	return fmt.Errorf("%w. need=%d, actual=%d, msg=%s", ErrShortBuffer, need, actual, msg)
}

func NewErrCapacityExceeded(need, left int) error {
	return fmt.Errorf("%w. need=%d, left=%d", ErrCapacityExceeded, need, left)
}

// ----- pkg/base ------------------------------------------------------------------------------------------------------

var (
	ErrBitsEnd    = errors.New("lalcodec.base: read beyond end of data")
	ErrBitsGolomb = errors.New("lalcodec.base: invalid exp-golomb code")

	ErrInvalidMetaMode = errors.New("lalcodec.base: invalid meta mode")
)

// ----- pkg/aac -------------------------------------------------------------------------------------------------------

var ErrAac = errors.New("lalcodec.aac: fxxk")

// ----- pkg/avc -------------------------------------------------------------------------------------------------------

var (
	ErrAvc              = errors.New("lalcodec.avc: fxxk")
	ErrAvcNotIdr        = errors.New("lalcodec.avc: not an idr frame")
	ErrAvcNoParamSet    = errors.New("lalcodec.avc: no sps or pps in keyframe")
	ErrAvcNalLengthSize = errors.New("lalcodec.avc: invalid nal length size")
)

// ----- pkg/hevc ------------------------------------------------------------------------------------------------------

var ErrHevc = errors.New("lalcodec.hevc: fxxk")

// ----- pkg/rtmp ------------------------------------------------------------------------------------------------------

var (
	ErrAmfInvalidType = errors.New("lalcodec.rtmp: invalid amf0 type")
	ErrAmfTooShort    = errors.New("lalcodec.rtmp: too short to unmarshal amf0 data")
	ErrAmfNotExist    = errors.New("lalcodec.rtmp: not exist")
)

func NewErrAmfInvalidType(b byte) error {
	return fmt.Errorf("%w. b=%d", ErrAmfInvalidType, b)
}

// ----- pkg/httpflv ---------------------------------------------------------------------------------------------------

var ErrHttpflv = errors.New("lalcodec.httpflv: fxxk")

// ----- pkg/logic -----------------------------------------------------------------------------------------------------

var (
	ErrSessionNotFound = errors.New("lalcodec.logic: session not found")
	ErrConfig          = errors.New("lalcodec.logic: invalid config")
)

// ---------------------------------------------------------------------------------------------------------------------
