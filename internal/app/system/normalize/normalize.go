// Package normalize canonicalizes user-entered strings before they are
// compared or stored.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims surrounding whitespace and preserves case.
func Name(s string) string { return strings.TrimSpace(s) }

// Status trims and lowercases a status value.
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Role trims and lowercases a role value.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a query-string value and preserves case.
func QueryParam(s string) string { return strings.TrimSpace(s) }
