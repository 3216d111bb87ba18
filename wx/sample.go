// wx/sample.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"fmt"
	"log/slog"
)

// Sample is the state of the air at a point.
type Sample struct {
	Wind [3]float32 // horizontal air movement, m/s
	Lift float32    // vertical air movement, m/s; negative is sink
}

func (s Sample) String() string {
	return fmt.Sprintf("wind (%.1f,%.1f) lift %+.2f", s.Wind[0], s.Wind[1], s.Lift)
}

func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("wind", s.Wind),
		slog.Float64("lift", float64(s.Lift)),
	)
}
