// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 maps [-1, 1] onto the int16 range, rounding to the nearest
// step and clamping outside it. A sample decoded as s/32768 converts back to
// s exactly. NaN becomes silence.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}

	v := math.Round(float64(x) * 32768)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
