package modkit

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeReport collects range violation messages in call order.
// The zero value is ready to use.
type RangeReport struct {
	msgs []string
}

// Messages returns the collected messages. It never returns nil.
func (r *RangeReport) Messages() []string {
	if r.msgs == nil {
		return []string{}
	}
	return r.msgs
}

func (r *RangeReport) add(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

// Min records a violation when v < limit.
func (r *RangeReport) Min(name string, v, limit float64) {
	if v < limit {
		r.add("%s=%s is below minimum %s", name, num(v), num(limit))
	}
}

// Max records a violation when v > limit.
func (r *RangeReport) Max(name string, v, limit float64) {
	if v > limit {
		r.add("%s=%s is above maximum %s", name, num(v), num(limit))
	}
}

// OneOf records a violation when v is not in allowed.
func (r *RangeReport) OneOf(name, v string, allowed ...string) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	r.add("%s=%q is not one of [%s]", name, v, strings.Join(allowed, ", "))
}

// OneOfFloat records a violation when v is not in allowed.
func (r *RangeReport) OneOfFloat(name string, v float64, allowed ...float64) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	parts := make([]string, len(allowed))
	for i, a := range allowed {
		parts[i] = num(a)
	}
	r.add("%s=%s is not one of [%s]", name, num(v), strings.Join(parts, ", "))
}

// MinEach applies Min to every element, naming them name[i].
func (r *RangeReport) MinEach(name string, vs []float64, limit float64) {
	for i, v := range vs {
		r.Min(fmt.Sprintf("%s[%d]", name, i), v, limit)
	}
}

// MaxEach applies Max to every element.
func (r *RangeReport) MaxEach(name string, vs []float64, limit float64) {
	for i, v := range vs {
		r.Max(fmt.Sprintf("%s[%d]", name, i), v, limit)
	}
}

// OneOfEach applies OneOf to every element.
func (r *RangeReport) OneOfEach(name string, vs []string, allowed ...string) {
	for i, v := range vs {
		r.OneOf(fmt.Sprintf("%s[%d]", name, i), v, allowed...)
	}
}

// OneOfFloatEach applies OneOfFloat to every element.
func (r *RangeReport) OneOfFloatEach(name string, vs []float64, allowed ...float64) {
	for i, v := range vs {
		r.OneOfFloat(fmt.Sprintf("%s[%d]", name, i), v, allowed...)
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
