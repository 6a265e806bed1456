package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var contentPolicy = bluemonday.StrictPolicy()

// sanitizeContent strips markup from user-supplied text before it is
// persisted or echoed back.
func sanitizeContent(s string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(s))
}
