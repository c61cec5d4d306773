//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PageKind is the lowercase discriminator written as a page's "type" field.
type PageKind string

// Page kinds. The set is closed: no other kind can be constructed or decoded.
const (
	PageKindCover     PageKind = "cover"
	PageKindHighlight PageKind = "highlight"
	PageKindInfo      PageKind = "info"
)

// PlaceholderImage is the asset used when no better image is known.
const PlaceholderImage = "assets/placeholder.png"

// Page is one page of a story pack. Implementations are CoverPage, HighlightPage and InfoPage.
type Page interface {
	Kind() PageKind
	isPage()
}

// CoverPage opens every story pack.
type CoverPage struct {
	Headline    string `json:"headline"`
	Image       string `json:"image" validate:"required"`
	Subheadline string `json:"subheadline,omitempty"`
}

// HighlightPage describes a highlight-worthy event.
type HighlightPage struct {
	Headline    string `json:"headline"`
	Caption     string `json:"caption"`
	Minute      int    `json:"minute" validate:"min=0,max=130"`
	Image       string `json:"image,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// InfoPage describes any other selected event.
type InfoPage struct {
	Headline string `json:"headline"`
	Body     string `json:"body,omitempty"`
}

// Kind returns PageKindCover.
func (CoverPage) Kind() PageKind { return PageKindCover }

// Kind returns PageKindHighlight.
func (HighlightPage) Kind() PageKind { return PageKindHighlight }

// Kind returns PageKindInfo.
func (InfoPage) Kind() PageKind { return PageKindInfo }

func (CoverPage) isPage()     {}
func (HighlightPage) isPage() {}
func (InfoPage) isPage()      {}

// MarshalJSON writes the page with its "type" discriminator.
func (p CoverPage) MarshalJSON() ([]byte, error) {
	type fields CoverPage
	return json.Marshal(struct {
		Type PageKind `json:"type"`
		fields
	}{PageKindCover, fields(p)})
}

// MarshalJSON writes the page with its "type" discriminator.
func (p HighlightPage) MarshalJSON() ([]byte, error) {
	type fields HighlightPage
	return json.Marshal(struct {
		Type PageKind `json:"type"`
		fields
	}{PageKindHighlight, fields(p)})
}

// MarshalJSON writes the page with its "type" discriminator.
func (p InfoPage) MarshalJSON() ([]byte, error) {
	type fields InfoPage
	return json.Marshal(struct {
		Type PageKind `json:"type"`
		fields
	}{PageKindInfo, fields(p)})
}

// DecodePage decodes a single page using its "type" discriminator.
// The discriminator is matched case-insensitively after trimming whitespace.
func DecodePage(data []byte) (Page, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	switch PageKind(strings.ToLower(strings.TrimSpace(head.Type))) {
	case PageKindCover:
		var p CoverPage
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode cover page: %w", err)
		}
		return p, nil
	case PageKindHighlight:
		var p HighlightPage
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode highlight page: %w", err)
		}
		return p, nil
	case PageKindInfo:
		var p InfoPage
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode info page: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown page type %q", head.Type)
	}
}
