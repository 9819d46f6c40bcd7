package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration accepts the ISO-8601 subset P<n>DT<n>H<n>M<n>S (every
// component optional, at least one present) and a bare integer meaning minutes.
func ParseDuration(raw string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, ParseError("empty duration")
	}

	if minutes, err := strconv.Atoi(s); err == nil {
		if minutes < 0 {
			return 0, ParseError("negative duration %q", raw)
		}
		if int64(minutes) > math.MaxInt64/int64(time.Minute) {
			return 0, ParseError("duration component out of range in %q", raw)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	m := isoDuration.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "T") {
		return 0, ParseError("unrecognized duration %q", raw)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	found := false
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > math.MaxInt64/int64(unit) {
			return 0, ParseError("duration component out of range in %q", raw)
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, ParseError("duration component out of range in %q", raw)
		}
		total += part
		found = true
	}
	if !found {
		return 0, ParseError("duration %q has no components", raw)
	}
	return total, nil
}
