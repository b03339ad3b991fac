//go:build linux

package sandbox

// Linux accounts ru_maxrss in kilobytes.
const maxRSSUnitBytes = 1024
