package variables

import "regexp"

var placeholders = map[byte]*regexp.Regexp{
	'$': regexp.MustCompile(`\$\{([^}]+)\}`),
	'@': regexp.MustCompile(`@\{([^}]+)\}`),
}

// Expand replaces every ${name} with the variable's value.
// Unknown names are left untouched.
func (v *Variables) Expand(s string) string {
	return ExpandFunc(s, '$', v.Get)
}

// ExpandFunc replaces placeholders of the form <marker>{name} using lookup.
// Unknown names are left untouched.
func ExpandFunc(s string, marker byte, lookup func(string) (string, bool)) string {
	re, ok := placeholders[marker]
	if !ok {
		re = regexp.MustCompile(regexp.QuoteMeta(string(marker)) + `\{([^}]+)\}`)
	}
	return re.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		if value, ok := lookup(name); ok {
			return value
		}
		return m
	})
}
