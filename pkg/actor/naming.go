package actor

import "fmt"

// UniqueName returns a's name, suffixed with " (n)" (n starting at 2) until
// it no longer collides with existing.
func UniqueName(a Actor, existing []string) string {
	names := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		names[n] = struct{}{}
	}
	return uniqueName(a.Name(), names)
}

func uniqueName(base string, names map[string]struct{}) string {
	result := base
	for i := 2; ; i++ {
		if _, taken := names[result]; !taken {
			return result
		}
		result = fmt.Sprintf("%s (%d)", base, i)
	}
}

// UniqueNames renames actors so that no two share a name. Earlier actors keep
// their names. Reports whether any actor was renamed.
func UniqueNames(actors []Actor) bool {
	names := make(map[string]struct{}, len(actors))
	renamed := false
	for _, a := range actors {
		name := uniqueName(a.Name(), names)
		if name != a.Name() {
			a.SetName(name)
			renamed = true
		}
		names[name] = struct{}{}
	}
	return renamed
}
