package normalize

import (
	"regexp"
	"strings"
)

var (
	// pluralized abbreviations such as TargetGroupARNs, which would
	// otherwise come out as target_group_ar_ns
	pluralAcronymRe = regexp.MustCompile(`[A-Z]{3,}s$`)
	firstCapRe      = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapRe        = regexp.MustCompile(`([a-z0-9])([A-Z]+)`)
)

// Snake converts an upper- or lower-camel-case key to lower snake case.
//
// Keys already in snake case are returned unchanged, so Snake(Snake(k)) == Snake(k).
func Snake(name string) string {
	s1 := pluralAcronymRe.ReplaceAllStringFunc(name, func(m string) string {
		return "_" + strings.ToLower(m)
	})
	if strings.HasPrefix(s1, "_") && !strings.HasPrefix(name, "_") {
		s1 = s1[1:]
	}

	s2 := firstCapRe.ReplaceAllString(s1, "${1}_${2}")
	return strings.ToLower(allCapRe.ReplaceAllString(s2, "${1}_${2}"))
}
