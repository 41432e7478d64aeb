package tmpl

import "strings"

// Vars holds the values available to notification templates.
type Vars struct {
	Name   string
	Dosage string
	Time   string
	Food   string
}

// Expand replaces template placeholders in s with runtime values:
// {name}, {dosage}, {time}, {food}. {Name} is the title-cased name.
// Unknown placeholders are left as-is.
func Expand(s string, v Vars) string {
	r := strings.NewReplacer(
		"{Name}", TitleCase(v.Name),
		"{name}", v.Name,
		"{dosage}", v.Dosage,
		"{time}", v.Time,
		"{food}", v.Food,
	)
	return strings.TrimSpace(r.Replace(s))
}

// TitleCase uppercases the first byte of s.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
