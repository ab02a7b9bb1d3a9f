// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrNoChannels        = errors.New("channel count must be positive")
	ErrEmptyAsset        = errors.New("asset holds no frames")
	ErrStreamClosed      = errors.New("stream is closed")
)
