// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// BuildValueNotAvailable stands in for build metadata that was not stamped
// by the linker.
const BuildValueNotAvailable = "N/A"

// AppBuildInfo is the metadata injected with -ldflags "-X main.buildVersion=..."
// when the server binary is built.
type AppBuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewAppBuildInfo replaces empty values with [BuildValueNotAvailable].
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	orNA := func(v string) string {
		if v == "" {
			return BuildValueNotAvailable
		}
		return v
	}
	return AppBuildInfo{Version: orNA(version), Date: orNA(date), Commit: orNA(commit)}
}

// HasVersion reports whether a version was stamped at link time.
func (a AppBuildInfo) HasVersion() bool {
	return a.Version != BuildValueNotAvailable
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", a.Version, a.Date, a.Commit)
}
