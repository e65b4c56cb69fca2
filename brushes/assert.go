// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package brushes

import "fmt"

// assertf panics when debugChecks is on and cond is false. Release builds
// compile it to nothing; build with -tags canvasdebug to enable.
func assertf(cond bool, format string, args ...any) {
	if debugChecks && !cond {
		panic(fmt.Sprintf("brushes: invariant violated: "+format, args...))
	}
}
