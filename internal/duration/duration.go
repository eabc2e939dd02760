package duration

import (
	"fmt"
	"regexp"
	"strconv"
)

// Duration is an hours/minutes pair as found in a cell. Minutes are not
// normalized on parse, so "1:75" stays (1, 75).
type Duration struct {
	Hours   int
	Minutes int
}

// TotalMinutes returns the elapsed time in minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// String formats the duration as H:MM.
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d", d.Hours, d.Minutes)
}

// FromMinutes splits a minute count into hours and remainder minutes.
func FromMinutes(total int) Duration {
	h := total / 60
	return Duration{Hours: h, Minutes: total - h*60}
}

type Parser struct {
	pattern *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{pattern: regexp.MustCompile(`([0-9]+):([0-9]+)`)}
}

// Parse returns the first digits:digits pair in raw. Anything around the
// match is ignored. ok is false when raw holds no such pair.
func (p *Parser) Parse(raw string) (d Duration, ok bool) {
	m := p.pattern.FindStringSubmatch(raw)
	if m == nil {
		return Duration{}, false
	}
	return Duration{Hours: atoiOrZero(m[1]), Minutes: atoiOrZero(m[2])}, true
}

// atoiOrZero maps digit runs that overflow int to zero.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
