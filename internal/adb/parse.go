package adb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FluidXR/droidlog/internal/logging"
)

var (
	firstIntPattern    = regexp.MustCompile(`\b\d+`)
	topActivityPattern = regexp.MustCompile(`(?P<pid>\d{2,}):(?P<package>[^/]*)`)
)

const topActivityMarker = "top-activity"

// eachLine calls fn for every line of s, stopping early when fn returns
// false. A line ends at "\r\n", "\n" or a lone "\r". Lines may be of any
// length.
func eachLine(s string, fn func(line string) bool) {
	for s != "" {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			fn(s)
			return
		}
		line, rest := s[:i], s[i+1:]
		if s[i] == '\r' && strings.HasPrefix(rest, "\n") {
			rest = rest[1:]
		}
		if !fn(line) {
			return
		}
		s = rest
	}
}

// ParsePidInfo returns the pid on the first line of a `ps` listing that ends
// with packageName, or -1. Only the matched line is run through the regexp.
func ParsePidInfo(packageName, output string) int {
	var match string
	found := false
	eachLine(output, func(line string) bool {
		if strings.HasSuffix(line, packageName) {
			match, found = line, true
			return false
		}
		return true
	})

	if !found || match == "" {
		logging.Debug("adb").Str("package", packageName).Msg("cannot get process status")
		return -1
	}

	num := firstIntPattern.FindString(match)
	if num == "" {
		logging.Debug("adb").Str("package", packageName).Str("line", match).Msg("failed to parse pid")
		return -1
	}
	pid, err := strconv.Atoi(num)
	if err != nil {
		logging.Debug("adb").Str("package", packageName).Str("line", match).Err(err).Msg("failed to parse pid")
		return -1
	}
	return pid
}

// ParseTopActivityPackageInfo extracts the pid and package name from the
// top-activity line of `dumpsys activity`. It returns (-1, "") on failure.
func ParseTopActivityPackageInfo(output string) (int, string) {
	if output == "" {
		return -1, ""
	}

	var match string
	eachLine(output, func(line string) bool {
		if strings.Contains(line, topActivityMarker) {
			match = line
			return false
		}
		return true
	})

	if match == "" {
		logging.Debug("adb").Msg("cannot find top activity")
		return -1, ""
	}
	logging.Debug("adb").Str("line", match).Msg("top activity")

	m := topActivityPattern.FindStringSubmatch(match)
	if m == nil {
		logging.Debug("adb").Str("line", match).Msg("top activity match failed")
		return -1, ""
	}
	pid, err := strconv.Atoi(m[topActivityPattern.SubexpIndex("pid")])
	if err != nil {
		logging.Debug("adb").Str("line", match).Err(err).Msg("top activity pid out of range")
		return -1, ""
	}
	return pid, m[topActivityPattern.SubexpIndex("package")]
}

// ParseDeviceIDs returns the ids of devices in the "device" state from
// `adb devices` output.
func ParseDeviceIDs(output string) []string {
	var ids []string
	eachLine(output, func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}
		logging.Debug("adb").Str("line", line).Msg("devices")
		if !strings.HasSuffix(line, "device") {
			return true
		}
		id, _, ok := strings.Cut(line, "\t")
		if !ok {
			return true
		}
		ids = append(ids, id)
		return true
	})
	return ids
}

// ParseProperties parses `getprop` output of the form "[key]: [value]".
func ParseProperties(output string) map[string]string {
	props := make(map[string]string)
	eachLine(output, func(line string) bool {
		line = strings.TrimSpace(line)
		key, val, ok := strings.Cut(line, "]: [")
		if !ok || !strings.HasPrefix(key, "[") || !strings.HasSuffix(val, "]") {
			return true
		}
		props[strings.TrimPrefix(key, "[")] = strings.TrimSuffix(val, "]")
		return true
	})
	return props
}
