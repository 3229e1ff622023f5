// Package coordination implements the clause coordination engine: overlay
// geometry for rendered document pages, grouping of sub-clauses under their
// parent headings, and the shared selection state consumed by the document
// overlay, the navigation list, and the inspector panel.
package coordination

import (
	"encoding/json"

	"github.com/zakellyputra/contractpilot/model"
)

// Rect is a clause bounding rectangle in source-page units.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Overlay is a screen-space rectangle positioned over a rendered page.
type Overlay struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParseRects decodes the serialized rect list carried on a clause record.
func ParseRects(raw string) ([]Rect, error) {
	var rects []Rect
	if err := json.Unmarshal([]byte(raw), &rects); err != nil {
		return nil, err
	}
	return rects, nil
}

// ScaleRects maps source-page rectangles into screen space with a single
// uniform scale factor. Pure; no aspect-ratio correction.
func ScaleRects(rects []Rect, scale float64) []Overlay {
	overlays := make([]Overlay, 0, len(rects))
	for _, r := range rects {
		overlays = append(overlays, Overlay{
			Left:   r.X0 * scale,
			Top:    r.Y0 * scale,
			Width:  (r.X1 - r.X0) * scale,
			Height: (r.Y1 - r.Y0) * scale,
		})
	}
	return overlays
}

// ClauseOverlays computes the screen-space overlays for one clause at the
// given rendered page width. A clause with no page number, no rects, or
// unparseable rects produces no overlays; malformed geometry is not an
// error, the clause is simply skipped.
func ClauseOverlays(clause *model.Clause, renderedWidth float64) []Overlay {
	if clause.PageNumber == nil || clause.Rects == "" || renderedWidth <= 0 {
		return nil
	}

	rects, err := ParseRects(clause.Rects)
	if err != nil || len(rects) == 0 {
		return nil
	}

	pageWidth := clause.PageWidth
	if pageWidth <= 0 {
		pageWidth = model.DefaultPageWidth
	}

	return ScaleRects(rects, renderedWidth/pageWidth)
}

// PageOverlays computes overlays for every clause on the given page,
// keyed by clause id. Recomputed on every rendered-width change; bounded
// by input size, no shared state.
func PageOverlays(clauses []model.Clause, page int, renderedWidth float64) map[string][]Overlay {
	result := make(map[string][]Overlay)
	for i := range clauses {
		c := &clauses[i]
		if c.PageNumber == nil || *c.PageNumber != page {
			continue
		}
		if overlays := ClauseOverlays(c, renderedWidth); len(overlays) > 0 {
			result[c.ID] = overlays
		}
	}
	return result
}
