//go:build navlog

// nav/log_debug.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Navigation logging configuration
var (
	navlogEnabled    bool
	navlogCategories map[string]bool
	navlogName       string // filter to only log this body (empty = log all)
	navlogSeq        atomic.Int64
)

// InitNavLog initializes the navigation logging system
func InitNavLog(enabled bool, categories string, name string) {
	navlogEnabled = enabled
	navlogCategories = make(map[string]bool)
	navlogName = strings.TrimSpace(name)

	if !enabled {
		return
	}

	if categories == "" || categories == "all" {
		navlogCategories[NavLogMode] = true
		navlogCategories[NavLogReached] = true
		navlogCategories[NavLogCircuit] = true
	} else {
		for _, cat := range strings.Split(categories, ",") {
			navlogCategories[strings.TrimSpace(cat)] = true
		}
	}
}

// NavLog logs a message with a sequence number, body name, and category
func NavLog(name string, category string, format string, args ...any) {
	if !navlogEnabled || !navlogCategories[category] {
		return
	}
	if navlogName != "" && navlogName != name {
		return
	}

	// Format: [seq] [name] [category] message
	fmt.Printf("[%06d] [%s] [%s] %s\n", navlogSeq.Add(1), name, category, fmt.Sprintf(format, args...))
}

// NavLogEnabled returns whether navigation logging is enabled for a given category
func NavLogEnabled(category string) bool {
	return navlogEnabled && navlogCategories[category]
}
