// Package model defines the data model shared by the nesting engine:
// stickers, nesting configuration, placement results and the error taxonomy.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/nestpack/internal/geom"
)

// UnitsPerInch is the fixed-point scale factor: engine coordinates are
// micro-inches. The boundary layer converts between fractional inches and
// Units; the engine never sees floating-point coordinates.
const UnitsPerInch = 1_000_000

// ToUnits converts inches to internal Units, rounding to the nearest Unit.
func ToUnits(inches float64) geom.Unit {
	if inches >= 0 {
		return geom.Unit(inches*UnitsPerInch + 0.5)
	}
	return geom.Unit(inches*UnitsPerInch - 0.5)
}

// ToInches converts internal Units back to inches.
func ToInches(u geom.Unit) float64 {
	return float64(u) / UnitsPerInch
}

// PlacementMode selects the placement engine fidelity.
type PlacementMode string

const (
	ModeNFP         PlacementMode = "nfp"  // Full no-fit-polygon placement
	ModeBoundingBox PlacementMode = "bbox" // Rectangular bounding-box packing (fast, coarse)
)

// Alignment selects the anchor the scorer pulls placements toward.
type Alignment string

const (
	AlignCorner Alignment = "corner" // Anchor at the sheet origin corner
	AlignCenter Alignment = "center" // Anchor at the sheet center
)

// OrderPolicy selects the item processing order.
type OrderPolicy string

const (
	OrderArea      OrderPolicy = "area"      // Largest polygon area first (default)
	OrderPerimeter OrderPolicy = "perimeter" // Longest outline first
	OrderDiagonal  OrderPolicy = "diagonal"  // Largest bounding-box diagonal first
	OrderID        OrderPolicy = "id"        // Natural order of sticker ids
	OrderGenetic   OrderPolicy = "genetic"   // GA-optimized order (seeded, deterministic)
)

// NestConfig holds the engine configuration for one nesting run.
// All lengths are in internal Units.
type NestConfig struct {
	SheetWidth  geom.Unit
	SheetHeight geom.Unit
	Spacing     geom.Unit // Minimum clearance between placed stickers
	Rotations   []int     // Candidate rotation angles in degrees; {0} disables rotation
	Mode        PlacementMode
	Order       OrderPolicy
	Alignment   Alignment
	Accuracy    float64       // (0,1]: candidate sampling resolution along NFP edges
	Timeout     time.Duration // Wall-clock budget for the run; 0 means unbounded
}

// DefaultNestConfig returns the configuration matching the CLI defaults:
// 1/16 inch spacing, quarter-turn rotations, full NFP placement.
func DefaultNestConfig() NestConfig {
	return NestConfig{
		Spacing:   UnitsPerInch / 16,
		Rotations: []int{0, 90, 180, 270},
		Mode:      ModeNFP,
		Order:     OrderArea,
		Alignment: AlignCorner,
		Accuracy:  1.0,
	}
}

// Validate checks the configuration before a run starts. Violations abort
// the whole run with a ConfigError.
func (c NestConfig) Validate() error {
	if c.SheetWidth <= 0 || c.SheetHeight <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("sheet dimensions must be positive, got %dx%d", c.SheetWidth, c.SheetHeight)}
	}
	if c.Spacing < 0 {
		return &ConfigError{Msg: "spacing must not be negative"}
	}
	if len(c.Rotations) == 0 {
		return &ConfigError{Msg: "rotation set must not be empty; use [0] to disable rotation"}
	}
	if c.Accuracy <= 0 || c.Accuracy > 1 {
		return &ConfigError{Msg: fmt.Sprintf("accuracy must be in (0,1], got %g", c.Accuracy)}
	}
	switch c.Mode {
	case ModeNFP, ModeBoundingBox:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown placement mode %q", c.Mode)}
	}
	switch c.Alignment {
	case AlignCorner, AlignCenter:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown alignment %q", c.Alignment)}
	}
	switch c.Order {
	case OrderArea, OrderPerimeter, OrderDiagonal, OrderID, OrderGenetic:
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown order policy %q", c.Order)}
	}
	return nil
}

// ItemState tracks an item through the orchestrator's state machine.
type ItemState int

const (
	StatePending ItemState = iota
	StateEvaluating
	StatePlaced
	StateUnplaceable // No legal candidate even on an empty sheet
	StateRejected    // Malformed outline, excluded before placement
)

func (s ItemState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateEvaluating:
		return "evaluating"
	case StatePlaced:
		return "placed"
	case StateUnplaceable:
		return "unplaceable"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Item is one sticker to be placed: an immutable source outline plus the
// mutable placement state written exactly once by the orchestrator.
type Item struct {
	ID    string
	Shape geom.Polygon // Validated CCW outline in Units
	Index int          // Original input position, used for stable tie-breaks
	State ItemState
	Err   error // Set when State is StateRejected

	// Placement, valid when State is StatePlaced.
	Rotation    int          // Degrees in [0,360)
	Position    geom.Point   // Min corner of the transformed outline's bounding box
	Transformed geom.Polygon // Outline after rotation and translation
	BinID       int          // 0-based bin index; -1 until placed
}

// NewItem validates an outline and builds a pending item. A malformed
// outline yields an item already in StateRejected carrying a GeometryError,
// so the run can report it without aborting.
func NewItem(id string, outline geom.Polygon, index int) *Item {
	if id == "" {
		id = uuid.New().String()[:8]
	}
	it := &Item{ID: id, Index: index, State: StatePending, BinID: -1}
	if err := outline.Validate(); err != nil {
		it.State = StateRejected
		it.Err = &GeometryError{ID: id, Err: err}
		return it
	}
	it.Shape = outline.EnsureCCW()
	return it
}

// Area returns the sticker's outline area in square Units.
func (it *Item) Area() float64 {
	return it.Shape.Area()
}

// Placement is the per-item result of a nesting run.
type Placement struct {
	ID       string
	Position geom.Point // Min corner of the transformed bounding box, in Units
	Rotation int        // Degrees in [0,360)
	BinID    int
}

// NestResult aggregates one nesting run.
type NestResult struct {
	Placements  []Placement
	BinCount    int
	PlacedCount int
	TotalCount  int
	Utilization float64 // Percent of used sheet area covered by placed stickers
	Rejected    []RejectedItem
	PackingTime time.Duration
}

// RejectedItem records a sticker excluded from placement and why.
type RejectedItem struct {
	ID     string
	Reason string
}
