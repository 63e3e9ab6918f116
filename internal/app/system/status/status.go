// Package status holds the document status values shared by stores.
package status

const (
	Active   = "active"
	Disabled = "disabled"
)
