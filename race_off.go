// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

package rtcore

// RaceEnabled is false when built without the race detector; stress tests
// run at full size.
const RaceEnabled = false
