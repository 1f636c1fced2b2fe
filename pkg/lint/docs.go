package lint

import (
	"net/url"
	"strings"
)

// DefaultDocsBaseURL is the hosted rule reference.
const DefaultDocsBaseURL = "https://sqlmatch.dev/docs/rules"

// DocsBaseURL is the root that rule documentation links are built from.
// The lint command points it at docs_url when one is configured.
var DocsBaseURL = DefaultDocsBaseURL

// RuleDocURL links to the rule's section on its group page, the layout
// scripts/gendocs produces: <base>/<group>#<id>. Without a group the link
// falls back to <base>/<id>.
func RuleDocURL(group, ruleID string) string {
	anchor := strings.ToLower(ruleID)
	if group == "" {
		return joinDocsPath(anchor)
	}
	return joinDocsPath(strings.ToLower(group)) + "#" + anchor
}

// BuildDocURL resolves the rule's group through the registry. Unregistered
// IDs get the group-less form.
func BuildDocURL(ruleID string) string {
	if rule, ok := GetByID(ruleID); ok {
		return RuleDocURL(rule.Group(), rule.ID())
	}
	return RuleDocURL("", ruleID)
}

func joinDocsPath(elem string) string {
	joined, err := url.JoinPath(DocsBaseURL, elem)
	if err != nil {
		return strings.TrimSuffix(DocsBaseURL, "/") + "/" + elem
	}
	return joined
}

// SetDocsBaseURL overrides DocsBaseURL. An empty value restores the default.
func SetDocsBaseURL(base string) {
	if base == "" {
		base = DefaultDocsBaseURL
	}
	DocsBaseURL = strings.TrimSuffix(base, "/")
}

// ResetDocsBaseURL restores the hosted documentation URL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}
