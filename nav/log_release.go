//go:build !navlog

// nav/log_release.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

// InitNavLog is a no-op in release builds
func InitNavLog(enabled bool, categories string, name string) {}

// NavLog is a no-op in release builds
func NavLog(name string, category string, format string, args ...any) {}

// NavLogEnabled always returns false in release builds
func NavLogEnabled(category string) bool { return false }
