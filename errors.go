// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import (
	"errors"

	"code.hybscloud.com/iox"
	"github.com/golang/glog"
)

// ErrWouldBlock indicates a shared [Ref] is transiently locked by a
// concurrent update and a Try operation declined to wait.
//
// ErrWouldBlock is a control flow signal, not a failure. Ownership of the
// arguments stays with the caller, who may retry later.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNotRecoverable reports that a shared ref's lock sentinel was replaced
// by someone other than the lock holder. It is never returned: the process
// is terminated with this diagnostic.
var ErrNotRecoverable = errors.New("rtcore: ref sentinel has been replaced")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// fatalf terminates the process after logging a stack trace.
var fatalf = glog.Fatalf
