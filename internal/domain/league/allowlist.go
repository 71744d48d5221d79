package league

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Allowed reports whether the (country, name) pair is on the allow-list.
// An empty list allows everything.
func Allowed(list []AllowedPair, country, name string) bool {
	if len(list) == 0 {
		return true
	}
	country = normalize(country)
	name = normalize(name)
	for _, p := range list {
		if normalize(p.Country) == country && normalize(p.Name) == name {
			return true
		}
	}
	return false
}
