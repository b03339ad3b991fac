//go:build darwin

package sandbox

// Darwin accounts ru_maxrss in bytes.
const maxRSSUnitBytes = 1
