// Package shadergen emits the GLSL form of a tile pipeline. Each topology and feature
// combination becomes its own program: the flags are prepended as #define lines to the
// embedded templates.
package shadergen

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Faultbox/tilequad/internal/tilemap"
)

//go:embed glsl/tile.vert
var vertexTemplate string

//go:embed glsl/tile.frag
var fragmentTemplate string

// Attribute locations of the vertex template, in TileVertexInput field order.
const (
	AttribCornerIndex = iota
	AttribGridPosition
	AttribUVCell
	AttribColor
	AttribTileSize
	AttribDepthHint
)

// Sources is a vertex and fragment shader pair.
type Sources struct {
	Variant  string
	Vertex   string
	Fragment string
}

// Generate returns the shader sources for a topology name (aliases allowed) and feature set.
func Generate(topology string, f tilemap.Features) (Sources, error) {
	name, err := tilemap.ParseTopology(topology)
	if err != nil {
		return Sources{}, fmt.Errorf("shadergen: %w", err)
	}

	defines := Defines(name, f)
	return Sources{
		Variant:  tilemap.Variant(name, f),
		Vertex:   inject(vertexTemplate, defines),
		Fragment: inject(fragmentTemplate, defines),
	}, nil
}

// Defines returns the preprocessor names for a canonical topology and feature set.
func Defines(topology string, f tilemap.Features) []string {
	return append([]string{"TOPOLOGY_" + strings.ToUpper(topology)}, f.Defines()...)
}

// inject places one #define per name right after the #version line.
func inject(src string, defines []string) string {
	version, body, _ := strings.Cut(src, "\n")

	var b strings.Builder
	b.WriteString(version)
	b.WriteByte('\n')
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(body)
	return b.String()
}
