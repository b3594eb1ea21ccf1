package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce  sync.Once
	markupRules *bluemonday.Policy
	strictRules *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		markupRules = bluemonday.UGCPolicy()
		strictRules = bluemonday.StrictPolicy()
	})
	return markupRules, strictRules
}

// sanitizeTag cleans one HTML tag found in a comment. Elements and
// attributes outside the user generated content policy are removed;
// with allowHTML false every tag is removed.
func sanitizeTag(raw string, allowHTML bool) string {
	ugc, strict := policies()
	if !allowHTML {
		return strings.TrimSpace(strict.Sanitize(raw))
	}
	return strings.TrimSpace(ugc.Sanitize(raw))
}
