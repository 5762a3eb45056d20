// Package protocol implements the JSON boundary of the nesting CLI: request
// decoding with defaults, unit conversion between fractional inches and
// internal fixed-point Units, and response encoding.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// PointJSON is a polygon vertex in fractional inches.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StickerJSON is one input polygon. Width and height are informational
// bounding-box dimensions supplied by the caller; the outline is
// authoritative.
type StickerJSON struct {
	ID     string      `json:"id"`
	Points []PointJSON `json:"points"`
	Width  float64     `json:"width,omitempty"`
	Height float64     `json:"height,omitempty"`
}

// Request is the single JSON object read from stdin. Optional fields use
// pointers so absent and zero values stay distinguishable.
type Request struct {
	Stickers      []StickerJSON `json:"stickers"`
	SheetWidth    float64       `json:"sheetWidth"`
	SheetHeight   float64       `json:"sheetHeight"`
	Spacing       *float64      `json:"spacing,omitempty"`       // Default 0.0625
	AllowRotation *bool         `json:"allowRotation,omitempty"` // Default true
	Mode          string        `json:"mode,omitempty"`          // "nfp" (default) or "bbox"
	Order         string        `json:"order,omitempty"`         // area|perimeter|diagonal|id|genetic
	Alignment     string        `json:"alignment,omitempty"`     // "corner" (default) or "center"
	Accuracy      float64       `json:"accuracy,omitempty"`      // (0,1], default 1.0
	TimeoutMs     int64         `json:"timeoutMs,omitempty"`     // 0 means unbounded
}

// PlacementJSON is one placed sticker in the response, in inches.
type PlacementJSON struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
	BinID    int     `json:"binId"`
}

// TimingJSON reports wall-clock durations in milliseconds.
type TimingJSON struct {
	PackingMs int64 `json:"packingMs"`
	TotalMs   int64 `json:"totalMs"`
}

// RejectedJSON reports a sticker excluded for bad geometry.
type RejectedJSON struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Response is the single JSON object written to stdout.
type Response struct {
	Success     bool            `json:"success"`
	BinCount    int             `json:"binCount,omitempty"`
	Placements  []PlacementJSON `json:"placements,omitempty"`
	PlacedCount int             `json:"placedCount"`
	TotalCount  int             `json:"totalCount"`
	Utilization float64         `json:"utilization"`
	Rejected    []RejectedJSON  `json:"rejected,omitempty"`
	Timing      TimingJSON      `json:"timing"`
	Error       string          `json:"error,omitempty"`
}

// DefaultSpacingInches matches the CLI default clearance of 1/16 inch.
const DefaultSpacingInches = 0.0625

// Decode reads one request object from r. Malformed JSON is a ConfigError:
// the whole run aborts because no per-item attribution is possible.
func Decode(r io.Reader) (*Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return nil, &model.ConfigError{Msg: fmt.Sprintf("malformed request: %v", err)}
	}
	return &req, nil
}

// Config resolves the request into an engine configuration, applying the
// documented defaults (1/16 in spacing, rotation allowed) for absent fields.
func (req *Request) Config() model.NestConfig {
	return req.ConfigWith(model.DefaultNestConfig())
}

// ConfigWith resolves the request on top of a base configuration: fields
// absent from the request keep the base values.
func (req *Request) ConfigWith(base model.NestConfig) model.NestConfig {
	cfg := base
	cfg.SheetWidth = model.ToUnits(req.SheetWidth)
	cfg.SheetHeight = model.ToUnits(req.SheetHeight)

	if req.Spacing != nil {
		cfg.Spacing = model.ToUnits(*req.Spacing)
	}

	if req.AllowRotation != nil && !*req.AllowRotation {
		cfg.Rotations = []int{0}
	}
	if req.Mode != "" {
		cfg.Mode = model.PlacementMode(req.Mode)
	}
	if req.Order != "" {
		cfg.Order = model.OrderPolicy(req.Order)
	}
	if req.Alignment != "" {
		cfg.Alignment = model.Alignment(req.Alignment)
	}
	if req.Accuracy != 0 {
		cfg.Accuracy = req.Accuracy
	}
	if req.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	return cfg
}

// Items converts the request stickers into engine items. Stickers with
// malformed outlines come back already rejected; they are reported, not
// fatal.
func (req *Request) Items() []*model.Item {
	items := make([]*model.Item, 0, len(req.Stickers))
	for i, s := range req.Stickers {
		outline := make(geom.Polygon, 0, len(s.Points))
		for _, p := range s.Points {
			outline = append(outline, geom.Point{
				X: model.ToUnits(p.X),
				Y: model.ToUnits(p.Y),
			})
		}
		items = append(items, model.NewItem(s.ID, outline, i))
	}
	return items
}

// BuildResponse converts a completed run into the wire response, converting
// positions back to inches.
func BuildResponse(res *model.NestResult, total time.Duration) *Response {
	out := &Response{
		Success:     true,
		BinCount:    res.BinCount,
		PlacedCount: res.PlacedCount,
		TotalCount:  res.TotalCount,
		Utilization: res.Utilization,
		Timing: TimingJSON{
			PackingMs: res.PackingTime.Milliseconds(),
			TotalMs:   total.Milliseconds(),
		},
	}
	for _, p := range res.Placements {
		out.Placements = append(out.Placements, PlacementJSON{
			ID:       p.ID,
			X:        model.ToInches(p.Position.X),
			Y:        model.ToInches(p.Position.Y),
			Rotation: p.Rotation,
			BinID:    p.BinID,
		})
	}
	for _, r := range res.Rejected {
		out.Rejected = append(out.Rejected, RejectedJSON{ID: r.ID, Reason: r.Reason})
	}
	return out
}

// BuildErrorResponse is the failure-path response: success false plus a
// message, and whatever timing is known.
func BuildErrorResponse(err error, total time.Duration) *Response {
	return &Response{
		Success: false,
		Error:   err.Error(),
		Timing:  TimingJSON{TotalMs: total.Milliseconds()},
	}
}

// Encode writes the response as a single JSON object followed by a newline.
func Encode(w io.Writer, resp *Response) error {
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}
