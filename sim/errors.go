// sim/errors.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrNoGliderTypes = errors.New("No glider types available")
	ErrTaskMismatch  = errors.New("Snapshot is for a different task")
	ErrUnknownPilot  = errors.New("Unknown pilot kind")
)
