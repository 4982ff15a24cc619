// Package sanitize restricts HTML to an explicit allow-list of tags before it
// reaches a rendered page.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// InlineTags is the conservative inline-formatting allow-list used for post
// content on public pages. Links, structural tags and scripts are stripped.
var InlineTags = []string{"b", "strong", "i", "em", "u", "br"}

var (
	inlineOnce   sync.Once
	inlinePolicy *bluemonday.Policy
)

// Sanitize returns html with every element not in allowedTags removed. Text
// inside removed elements is kept, except for script-like elements whose
// content is dropped entirely. No attributes survive.
func Sanitize(html string, allowedTags ...string) string {
	return NewPolicy(allowedTags...).Sanitize(html)
}

// Inline sanitizes with InlineTags using a shared policy.
func Inline(html string) string {
	inlineOnce.Do(func() {
		inlinePolicy = NewPolicy(InlineTags...)
	})
	return inlinePolicy.Sanitize(html)
}

func NewPolicy(allowedTags ...string) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	if len(allowedTags) > 0 {
		p.AllowElements(allowedTags...)
	}
	return p
}
