package viewer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/tilequad/internal/engine/shader"
	"github.com/Faultbox/tilequad/internal/engine/texture"
	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/internal/tilemap/shadergen"
	"github.com/Faultbox/tilequad/pkg/math"
)

var (
	ErrNoAtlas = errors.New("viewer: sampled variant without an atlas image")
	ErrNoMask  = errors.New("viewer: post-processing variant without a height mask")
)

// Options describe one tile draw setup.
type Options struct {
	Sources   shadergen.Sources
	Features  tilemap.Features
	Config    tilemap.Config
	SlotSize  math.Vec2
	Atlas     *image.RGBA
	Filter    texture.Filter
	Mask      image.Image
	MaskScale float32
	DepthTest bool
}

type uniforms struct {
	viewProj       int32
	tileRenderSize int32
	anchor         int32
	translation    int32
	textureSize    int32
	slotSize       int32
	viewport       int32
	heightScale    int32
	atlas          int32
	heightMask     int32
}

// Renderer owns the GL objects for one tile layer.
type Renderer struct {
	opts Options
	log  *zap.Logger

	program    uint32
	loc        uniforms
	vao        uint32
	vbo        uint32
	ebo        uint32
	atlasTex   uint32
	maskTex    uint32
	indexCount int32
}

// New compiles (or reuses) the program for opts.Sources and uploads the textures.
// The GL context must be current.
func New(cache *shader.Cache, opts Options) (*Renderer, error) {
	if !opts.Features.PureColor && opts.Atlas == nil {
		return nil, ErrNoAtlas
	}
	if opts.Features.PostProcess && opts.Mask == nil {
		return nil, ErrNoMask
	}

	program, err := cache.Program(opts.Sources.Variant, opts.Sources.Vertex, opts.Sources.Fragment)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		opts:    opts,
		log:     logger.Named("viewer"),
		program: program,
		loc: uniforms{
			viewProj:       shader.MustGetUniform(program, "u_view_proj"),
			tileRenderSize: shader.GetUniform(program, "u_tile_render_size"),
			anchor:         shader.GetUniform(program, "u_anchor"),
			translation:    shader.GetUniform(program, "u_translation"),
			textureSize:    shader.GetUniform(program, "u_texture_size"),
			slotSize:       shader.GetUniform(program, "u_slot_size"),
			viewport:       shader.GetUniform(program, "u_viewport"),
			heightScale:    shader.GetUniform(program, "u_height_scale"),
			atlas:          shader.GetUniform(program, "u_atlas"),
			heightMask:     shader.GetUniform(program, "u_height_mask"),
		},
	}

	r.setupBuffers()
	if opts.Atlas != nil && !opts.Features.PureColor {
		r.atlasTex = uploadRGBA(opts.Atlas, opts.Filter)
	}
	if opts.Mask != nil && opts.Features.PostProcess {
		r.maskTex = uploadGray(opts.Mask)
	}

	r.log.Info("tile renderer ready",
		zap.String("variant", opts.Sources.Variant),
		zap.Uint32("program", program),
	)
	return r, nil
}

func (r *Renderer) setupBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	var v tilemap.TileVertexInput
	stride := int32(unsafe.Sizeof(v))
	gl.VertexAttribIPointerWithOffset(shadergen.AttribCornerIndex, 1, gl.UNSIGNED_INT, stride, unsafe.Offsetof(v.CornerIndex))
	gl.EnableVertexAttribArray(shadergen.AttribCornerIndex)
	gl.VertexAttribPointerWithOffset(shadergen.AttribGridPosition, 2, gl.FLOAT, false, stride, unsafe.Offsetof(v.GridPosition))
	gl.EnableVertexAttribArray(shadergen.AttribGridPosition)
	gl.VertexAttribPointerWithOffset(shadergen.AttribUVCell, 2, gl.FLOAT, false, stride, unsafe.Offsetof(v.UVCell))
	gl.EnableVertexAttribArray(shadergen.AttribUVCell)
	gl.VertexAttribPointerWithOffset(shadergen.AttribColor, 4, gl.FLOAT, false, stride, unsafe.Offsetof(v.Color))
	gl.EnableVertexAttribArray(shadergen.AttribColor)
	gl.VertexAttribPointerWithOffset(shadergen.AttribTileSize, 2, gl.FLOAT, false, stride, unsafe.Offsetof(v.TileRenderSize))
	gl.EnableVertexAttribArray(shadergen.AttribTileSize)
	gl.VertexAttribPointerWithOffset(shadergen.AttribDepthHint, 1, gl.FLOAT, false, stride, unsafe.Offsetof(v.DepthHint))
	gl.EnableVertexAttribArray(shadergen.AttribDepthHint)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BindVertexArray(0)
}

// Upload replaces the vertex data. vertices should already be in back-to-front order.
func (r *Renderer) Upload(vertices []tilemap.TileVertexInput) error {
	if len(vertices)%tilemap.CornersPerTile != 0 {
		return fmt.Errorf("viewer: %d vertices is not a whole number of quads", len(vertices))
	}
	indices := QuadIndices(len(vertices) / tilemap.CornersPerTile)
	r.indexCount = int32(len(indices))
	if len(vertices) == 0 {
		return nil
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(vertices[0])), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	r.log.Debug("vertices uploaded", zap.Int("vertices", len(vertices)), zap.Int32("indices", r.indexCount))
	return nil
}

// Draw renders the uploaded tiles with the given view.
func (r *Renderer) Draw(view tilemap.ViewContext) {
	if r.indexCount == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if r.opts.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	gl.UseProgram(r.program)

	cfg := r.opts.Config
	gl.UniformMatrix4fv(r.loc.viewProj, 1, false, view.ViewProjection.Ptr())
	gl.Uniform2f(r.loc.tileRenderSize, cfg.TileRenderSize.X, cfg.TileRenderSize.Y)
	gl.Uniform2f(r.loc.anchor, cfg.Anchor.X, cfg.Anchor.Y)
	gl.Uniform2f(r.loc.translation, cfg.Translation.X, cfg.Translation.Y)
	gl.Uniform2f(r.loc.textureSize, cfg.TextureSize.X, cfg.TextureSize.Y)
	gl.Uniform2f(r.loc.slotSize, r.opts.SlotSize.X, r.opts.SlotSize.Y)
	gl.Uniform2f(r.loc.viewport, view.Viewport.X, view.Viewport.Y)
	gl.Uniform1f(r.loc.heightScale, r.opts.MaskScale)

	if r.atlasTex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
		gl.Uniform1i(r.loc.atlas, 0)
	}
	if r.maskTex != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, r.maskTex)
		gl.Uniform1i(r.loc.heightMask, 1)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// Close releases the buffers and textures. The cached program stays with its cache.
func (r *Renderer) Close() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	if r.atlasTex != 0 {
		gl.DeleteTextures(1, &r.atlasTex)
	}
	if r.maskTex != 0 {
		gl.DeleteTextures(1, &r.maskTex)
	}
}

// uploadRGBA creates a clamp-to-edge texture with rows stored top first and
// premultiplied alpha, matching the texel addressing and filtering of texture.Atlas.
func uploadRGBA(img *image.RGBA, filter texture.Filter) uint32 {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(rgba, image.Point{}, img, b, xdraw.Src, nil)

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	setSampling(filter)
	return texID
}

// uploadGray stores the luminance of img in a single-channel texture.
func uploadGray(img image.Image) uint32 {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(gray, image.Point{}, img, b, xdraw.Src, nil)

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&gray.Pix[0]))
	setSampling(texture.FilterNearest)
	return texID
}

func setSampling(filter texture.Filter) {
	mode := int32(gl.NEAREST)
	if filter == texture.FilterBilinear {
		mode = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}
