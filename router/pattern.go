package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Params holds path parameters.
type Params map[string]string

const (
	// DefaultPathConstraint matches one path segment.
	DefaultPathConstraint = `[^/]+`
	// DefaultHostConstraint matches one host label.
	DefaultHostConstraint = `[^.]+`
)

var paramName = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// PatternError reports a malformed route template.
type PatternError struct {
	Template string
	Reason   string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed route pattern %q: %s", e.Template, e.Reason)
}

type partKind int

const (
	partStatic partKind = iota
	partParam
)

type part struct {
	kind  partKind
	value string
}

type segment struct {
	parts    []part
	optional bool
}

// Pattern is a compiled path or host template.
type Pattern struct {
	template    string
	sep         string
	segments    []segment
	names       []string
	optional    map[string]bool
	groups      map[string]int
	constraints map[string]*regexp.Regexp
	re          *regexp.Regexp
}

// Compile compiles a path template such as "users/{id}/{slug?}".
func Compile(template string, constraints map[string]string) (*Pattern, error) {
	return compile(template, "/", DefaultPathConstraint, constraints)
}

// CompileHost compiles a host template such as "{account}.example.com".
func CompileHost(template string, constraints map[string]string) (*Pattern, error) {
	return compile(template, ".", DefaultHostConstraint, constraints)
}

func compile(template, sep, fallback string, constraints map[string]string) (*Pattern, error) {
	p := &Pattern{
		template:    template,
		sep:         sep,
		optional:    make(map[string]bool),
		groups:      make(map[string]int),
		constraints: make(map[string]*regexp.Regexp),
	}

	trimmed := strings.Trim(template, sep)
	if trimmed != "" {
		for _, raw := range strings.Split(trimmed, sep) {
			seg, err := parseSegment(template, raw)
			if err != nil {
				return nil, err
			}
			p.segments = append(p.segments, seg)
		}
	}

	var sb strings.Builder
	sb.WriteString("^")
	open := 0
	seenOptional := false
	for i, seg := range p.segments {
		if seenOptional && !seg.optional {
			return nil, &PatternError{Template: template, Reason: "only trailing parameters may be optional"}
		}

		lead := ""
		if i > 0 {
			lead = regexp.QuoteMeta(sep)
		}
		if seg.optional {
			seenOptional = true
			sb.WriteString("(?:")
			open++
		}
		sb.WriteString(lead)

		for _, pt := range seg.parts {
			if pt.kind == partStatic {
				sb.WriteString(regexp.QuoteMeta(pt.value))
				continue
			}
			if _, dup := p.groups[pt.value]; dup {
				return nil, &PatternError{Template: template, Reason: "duplicate parameter " + strconv.Quote(pt.value)}
			}

			expr := fallback
			if custom, ok := constraints[pt.value]; ok && custom != "" {
				expr = custom
			}
			check, err := regexp.Compile("^(?:" + expr + ")$")
			if err != nil {
				return nil, &PatternError{Template: template, Reason: fmt.Sprintf("invalid constraint for %s: %v", pt.value, err)}
			}

			group := "p" + strconv.Itoa(len(p.names))
			p.groups[pt.value] = len(p.names)
			p.names = append(p.names, pt.value)
			p.optional[pt.value] = seg.optional
			p.constraints[pt.value] = check
			sb.WriteString("(?P<" + group + ">" + expr + ")")
		}
	}
	sb.WriteString(strings.Repeat(")?", open))
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, &PatternError{Template: template, Reason: err.Error()}
	}
	p.re = re

	for i, name := range p.names {
		p.groups[name] = re.SubexpIndex("p" + strconv.Itoa(i))
	}

	return p, nil
}

func parseSegment(template, raw string) (segment, error) {
	var seg segment
	for len(raw) > 0 {
		open := strings.IndexByte(raw, '{')
		closing := strings.IndexByte(raw, '}')
		if open < 0 {
			if closing >= 0 {
				return seg, &PatternError{Template: template, Reason: "unbalanced braces"}
			}
			seg.parts = append(seg.parts, part{kind: partStatic, value: raw})
			break
		}
		if closing < 0 || closing < open {
			return seg, &PatternError{Template: template, Reason: "unbalanced braces"}
		}
		if open > 0 {
			seg.parts = append(seg.parts, part{kind: partStatic, value: raw[:open]})
		}

		name := raw[open+1 : closing]
		if strings.ContainsRune(name, '{') {
			return seg, &PatternError{Template: template, Reason: "nested braces"}
		}
		optional := strings.HasSuffix(name, "?")
		name = strings.TrimSuffix(name, "?")
		if !paramName.MatchString(name) {
			return seg, &PatternError{Template: template, Reason: "invalid parameter name " + strconv.Quote(name)}
		}
		if optional {
			if open != 0 || closing != len(raw)-1 || len(seg.parts) > 0 {
				return seg, &PatternError{Template: template, Reason: "optional parameter must be a whole segment"}
			}
			seg.optional = true
		}

		seg.parts = append(seg.parts, part{kind: partParam, value: name})
		raw = raw[closing+1:]
	}
	if len(seg.parts) == 0 {
		return seg, &PatternError{Template: template, Reason: "empty segment"}
	}
	return seg, nil
}

// Template returns the template the pattern was compiled from.
func (p *Pattern) Template() string {
	return p.template
}

// Names returns the parameter names in declaration order.
func (p *Pattern) Names() []string {
	return append([]string(nil), p.names...)
}

// Optional reports whether the named parameter may be absent.
func (p *Pattern) Optional(name string) bool {
	return p.optional[name]
}

// Static reports whether the pattern has no parameters.
func (p *Pattern) Static() bool {
	return len(p.names) == 0
}

// Match tests value against the pattern and extracts parameters.
// Absent optional parameters are left out of the result.
func (p *Pattern) Match(value string) (Params, bool) {
	trimmed := strings.Trim(value, p.sep)
	loc := p.re.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return nil, false
	}

	params := make(Params, len(p.names))
	for _, name := range p.names {
		idx := p.groups[name]
		start, end := loc[2*idx], loc[2*idx+1]
		if start < 0 {
			continue
		}
		params[name] = trimmed[start:end]
	}
	return params, true
}

// Build substitutes params into the template. It fails when a required
// parameter is missing or a value violates its constraint.
func (p *Pattern) Build(params map[string]string) (string, bool) {
	out := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		var sb strings.Builder
		missing := false
		for _, pt := range seg.parts {
			if pt.kind == partStatic {
				sb.WriteString(pt.value)
				continue
			}
			value, ok := params[pt.value]
			if !ok || value == "" {
				missing = true
				break
			}
			if !p.constraints[pt.value].MatchString(value) {
				return "", false
			}
			if p.sep == "/" {
				value = url.PathEscape(value)
			}
			sb.WriteString(value)
		}
		if missing {
			if seg.optional {
				break
			}
			return "", false
		}
		out = append(out, sb.String())
	}

	joined := strings.Join(out, p.sep)
	if p.sep == "/" {
		return "/" + joined, true
	}
	return joined, true
}
