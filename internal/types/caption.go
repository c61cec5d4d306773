//nolint:revive // types is a standard Go package name pattern
package types

// Caption is the caption collaborator's answer for one event.
// Both fields are empty when no caption could be produced.
type Caption struct {
	Asset string `json:"asset"`
	Text  string `json:"text"`
}

// Empty reports whether the caption carries nothing usable.
func (c Caption) Empty() bool {
	return c.Asset == "" && c.Text == ""
}
