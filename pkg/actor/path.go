package actor

import "strings"

// PathSeparator separates the names in a full name.
const PathSeparator = '.'

const escapeChar = '\\'

// EscapeName escapes separators inside a single actor name.
func EscapeName(name string) string {
	if !strings.ContainsAny(name, `.\`) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r == PathSeparator || r == escapeChar {
			b.WriteRune(escapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Path is a parsed full name: the sequence of actor names from the root.
type Path []string

// ParsePath splits an escaped full name into its segments.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	var (
		segments []string
		current  strings.Builder
		escaped  bool
	)
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == PathSeparator:
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(segments, current.String())
}

// PathOf returns the path of a.
func PathOf(a Actor) Path {
	return ParsePath(a.FullName())
}

// First returns the first segment, or "" for an empty path.
func (p Path) First() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Last returns the last segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns the path without its first segment, nil if nothing remains.
func (p Path) Child() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[1:]
}

// ParentPath returns the path without its last segment, nil if nothing remains.
func (p Path) ParentPath() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1]
}

// Append returns a new path with name added at the end.
func (p Path) Append(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

func (p Path) String() string {
	escaped := make([]string, len(p))
	for i, s := range p {
		escaped[i] = EscapeName(s)
	}
	return strings.Join(escaped, string(PathSeparator))
}
