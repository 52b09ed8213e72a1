package engine

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ayoisaiah/daybook/internal/models"
)

// Unclassified is the label assigned when no rule matches and no domain
// fallback is available.
const Unclassified = "unclassified"

// Rule maps a compiled pattern to a category label and an optional project.
// Rules are evaluated in the order they were configured; the first match
// wins.
type Rule struct {
	Pattern *regexp.Regexp
	Label   string
	Project string
}

// RuleSet holds the ordered classification rules for each text field. The
// classifier never mutates or reorders a rule set.
type RuleSet struct {
	Apps    []Rule
	Titles  []Rule
	Domains []Rule
}

func firstMatch(rules []Rule, text string) (Rule, bool) {
	if text == "" {
		return Rule{}, false
	}

	for _, r := range rules {
		if r.Pattern != nil && r.Pattern.MatchString(text) {
			return r, true
		}
	}

	return Rule{}, false
}

// Domain extracts the registrable host from a URL, dropping any leading
// www prefix. It returns the input unchanged if it does not parse as a URL.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Classify assigns a category and project to an identity by evaluating the
// app rules, then the title rules, then the domain rules in order. If
// nothing matches, the domain string itself becomes the category, and
// failing that the identity is unclassified.
func (rs RuleSet) Classify(id models.Identity) (category, project string) {
	if r, ok := firstMatch(rs.Apps, id.App); ok {
		return r.Label, r.Project
	}

	if r, ok := firstMatch(rs.Titles, id.Title); ok {
		return r.Label, r.Project
	}

	domain := Domain(id.URL)

	if r, ok := firstMatch(rs.Domains, domain); ok {
		return r.Label, r.Project
	}

	if domain != "" {
		return domain, ""
	}

	return Unclassified, ""
}
