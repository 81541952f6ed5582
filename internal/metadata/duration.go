package metadata

import "regexp"

// isoDurationRE matches the ISO-8601 duration subset the Data API emits
// (PT#H#M#S with every component optional).
var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts a Data API duration token like "PT1H2M3S" into
// total seconds. Returns nil for malformed or empty input.
func ParseISODuration(s string) *int64 {
	if s == "" {
		return nil
	}
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	var total int64
	mult := []int64{86400, 3600, 60, 1}
	matched := false
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		matched = true
		total += atoi64(part) * mult[i]
	}
	if !matched {
		return nil
	}
	return &total
}

// atoi64 parses a digits-only string; the regexp guarantees validity.
func atoi64(s string) int64 {
	var n int64
	for _, c := range s {
		n = n*10 + int64(c-'0')
	}
	return n
}
