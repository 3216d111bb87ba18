// nav/log.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

// Available logging categories
const (
	NavLogMode    = "mode"
	NavLogReached = "reached"
	NavLogCircuit = "circuit"
)
