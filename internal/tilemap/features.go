package tilemap

import "strings"

// Features is the build configuration of a pipeline. Each flag decides which code path a
// pipeline carries; none of them is consulted per invocation.
type Features struct {
	NonUniformSize bool // Read TileRenderSize from each vertex instead of Config
	FlipH          bool // u = 1 - u after normalization
	FlipV          bool // v = 1 - v after normalization
	PureColor      bool // Base color is opaque white, no atlas sampling
	PostProcess    bool // Forward DepthHint and call the HeightHook per fragment
}

// Defines returns the preprocessor-style names of the enabled flags, in a fixed order.
func (f Features) Defines() []string {
	var defs []string
	if f.NonUniformSize {
		defs = append(defs, "NON_UNIFORM_SIZE")
	}
	if f.FlipH {
		defs = append(defs, "FLIP_H")
	}
	if f.FlipV {
		defs = append(defs, "FLIP_V")
	}
	if f.PureColor {
		defs = append(defs, "PURE_COLOR")
	}
	if f.PostProcess {
		defs = append(defs, "POST_PROCESSING")
	}
	return defs
}

// Variant names a topology and feature combination, e.g. "square+flip_h+pure_color".
// Equal variants produce identical pipelines and shader programs.
func Variant(topology string, f Features) string {
	parts := []string{topology}
	for _, d := range f.Defines() {
		parts = append(parts, strings.ToLower(d))
	}
	return strings.Join(parts, "+")
}
