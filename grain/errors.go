// SPDX-License-Identifier: EPL-2.0

package grain

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidBlockSize  = errors.New("block size must be positive")
	ErrUnknownName       = errors.New("unknown name")
)
