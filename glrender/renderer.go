// Package glrender executes render.Op lists with OpenGL.
package glrender

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/fonts"
	"github.com/javanhut/RavenPanel/icons"
	"github.com/javanhut/RavenPanel/render"
)

const maxAtlasSize = 4096

// Character ranges baked into the glyph atlas.
var charRanges = []struct{ start, end rune }{
	{32, 126},        // Printable ASCII
	{160, 255},       // Extended Latin-1
	{0x2500, 0x257F}, // Box Drawing
	{0x2580, 0x259F}, // Block Elements
	{0x25A0, 0x25FF}, // Geometric Shapes
}

// Glyph is the location of a character in an atlas.
type Glyph struct {
	X, Y          float32 // Position in atlas (normalized 0-1)
	Width, Height float32 // Size in atlas (normalized 0-1)
	PixelWidth    int
	PixelHeight   int
}

type atlas struct {
	texture uint32
	glyphs  map[rune]Glyph
}

type iconKey struct {
	name string
	size int
}

// Renderer draws ops into the current GL context.
type Renderer struct {
	log     pslog.Logger
	font    fonts.FontInfo
	metrics render.Metrics

	regular atlas
	bold    atlas
	icons   map[iconKey]uint32

	// OpenGL resources
	quadVAO    uint32
	quadVBO    uint32
	program    uint32
	texProgram uint32
	texVAO     uint32
	texVBO     uint32

	// Uniforms
	colorLoc    int32
	projLoc     int32
	texColorLoc int32
	texProjLoc  int32
	texLoc      int32
}

// New creates a renderer for the current GL context.
func New(f fonts.FontInfo, size float32, logger pslog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	r := &Renderer{
		log:   logger.With("component", "glrender"),
		font:  f,
		icons: make(map[iconKey]uint32),
	}
	if err := r.initGL(); err != nil {
		return nil, err
	}
	if err := r.SetFontSize(size); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// Metrics returns the cell metrics of the loaded font.
func (r *Renderer) Metrics() render.Metrics { return r.metrics }

// SetFontSize rebuilds the glyph atlases at a new size.
func (r *Renderer) SetFontSize(size float32) error {
	metrics, err := render.LoadMetrics(r.font.Data, float64(size))
	if err != nil {
		return err
	}
	regular, err := buildAtlas(r.font.Data, size, metrics)
	if err != nil {
		return err
	}
	boldData := r.font.Bold
	if boldData == nil {
		boldData = r.font.Data
	}
	bold, err := buildAtlas(boldData, size, metrics)
	if err != nil {
		gl.DeleteTextures(1, &regular.texture)
		return err
	}

	r.deleteAtlases()
	r.regular, r.bold = regular, bold
	r.metrics = metrics
	r.log.Debug("font loaded", "font", r.font.Name, "size", size,
		"cell_width", metrics.CellWidth, "cell_height", metrics.CellHeight)
	return nil
}

// buildAtlas renders the character ranges of a font into a single channel
// texture sized to hold them.
func buildAtlas(fontData []byte, size float32, m render.Metrics) (atlas, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return atlas{}, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return atlas{}, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	charWidth, charHeight := int(m.CellWidth), int(m.CellHeight)
	ascent := int(m.Ascent)
	count := 0
	for _, cr := range charRanges {
		count += int(cr.end-cr.start) + 1
	}
	atlasSize := atlasSizeFor(count, charWidth, charHeight)

	img := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: img, Src: image.White, Face: face}

	a := atlas{glyphs: make(map[rune]Glyph, count)}
	x, y := 0, 0
	for _, cr := range charRanges {
		for c := cr.start; c <= cr.end; c++ {
			if x+charWidth > atlasSize {
				x = 0
				y += charHeight
			}
			if y+charHeight > atlasSize {
				break
			}
			if _, ok := face.GlyphAdvance(c); !ok {
				continue
			}
			drawer.Dot = fixed.P(x, y+ascent)
			drawer.DrawString(string(c))
			a.glyphs[c] = Glyph{
				X:           float32(x) / float32(atlasSize),
				Y:           float32(y) / float32(atlasSize),
				Width:       float32(charWidth) / float32(atlasSize),
				Height:      float32(charHeight) / float32(atlasSize),
				PixelWidth:  charWidth,
				PixelHeight: charHeight,
			}
			x += charWidth
		}
	}

	a.texture = uploadAlpha(img)
	return a, nil
}

// atlasSizeFor returns the smallest power of two square holding count
// cells of cw x ch pixels.
func atlasSizeFor(count, cw, ch int) int {
	size := 256
	for size < maxAtlasSize {
		if cw > 0 && ch > 0 && (size/cw)*(size/ch) >= count {
			break
		}
		size *= 2
	}
	return size
}

// uploadAlpha creates a single channel texture from the alpha of img.
func uploadAlpha(img *image.RGBA) uint32 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	alpha := make([]byte, w*h)
	for i := range alpha {
		alpha[i] = img.Pix[i*4+3]
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(h), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(alpha))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// initGL initializes OpenGL resources
func (r *Renderer) initGL() error {
	vertShader := `
		#version 410 core
		layout (location = 0) in vec2 aPos;
		uniform mat4 projection;
		void main() {
			gl_Position = projection * vec4(aPos, 0.0, 1.0);
		}
	` + "\x00"

	fragShader := `
		#version 410 core
		out vec4 FragColor;
		uniform vec4 color;
		void main() {
			FragColor = color;
		}
	` + "\x00"

	var err error
	r.program, err = createProgram(vertShader, fragShader)
	if err != nil {
		return fmt.Errorf("failed to create quad shader: %w", err)
	}
	r.colorLoc = gl.GetUniformLocation(r.program, gl.Str("color\x00"))
	r.projLoc = gl.GetUniformLocation(r.program, gl.Str("projection\x00"))

	// Glyphs and icons are alpha masks tinted by the op color.
	texVertShader := `
		#version 410 core
		layout (location = 0) in vec4 vertex; // <vec2 pos, vec2 tex>
		out vec2 TexCoords;
		uniform mat4 projection;
		void main() {
			gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
			TexCoords = vertex.zw;
		}
	` + "\x00"

	texFragShader := `
		#version 410 core
		in vec2 TexCoords;
		out vec4 FragColor;
		uniform sampler2D mask;
		uniform vec4 tint;
		void main() {
			float alpha = texture(mask, TexCoords).r;
			FragColor = vec4(tint.rgb, tint.a * alpha);
		}
	` + "\x00"

	r.texProgram, err = createProgram(texVertShader, texFragShader)
	if err != nil {
		return fmt.Errorf("failed to create texture shader: %w", err)
	}
	r.texColorLoc = gl.GetUniformLocation(r.texProgram, gl.Str("tint\x00"))
	r.texProjLoc = gl.GetUniformLocation(r.texProgram, gl.Str("projection\x00"))
	r.texLoc = gl.GetUniformLocation(r.texProgram, gl.Str("mask\x00"))

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*2*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenVertexArrays(1, &r.texVAO)
	gl.GenBuffers(1, &r.texVBO)
	gl.BindVertexArray(r.texVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.texVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

// Draw clears a width x height framebuffer to background and executes ops
// in order. Coordinates are pixels with the origin at the top left.
func (r *Renderer) Draw(width, height int, background render.Color, ops []render.Op) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(background[0], background[1], background[2], background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	proj := orthoMatrix(0, float32(width), float32(height), 0, -1, 1)
	for _, op := range ops {
		switch op.Kind {
		case render.OpFillRect:
			r.drawRect(op.Rect.X, op.Rect.Y, op.Rect.W, op.Rect.H, op.Color, proj)
		case render.OpStrokeRect:
			r.strokeRect(op.Rect, op.Color, proj)
		case render.OpGlyph:
			r.drawGlyph(op, proj)
		case render.OpIcon:
			r.drawIcon(op, proj)
		}
	}
}

func (r *Renderer) strokeRect(rc render.Rect, clr render.Color, proj [16]float32) {
	const t = 1
	r.drawRect(rc.X, rc.Y, rc.W, t, clr, proj)
	r.drawRect(rc.X, rc.Y+rc.H-t, rc.W, t, clr, proj)
	r.drawRect(rc.X, rc.Y, t, rc.H, clr, proj)
	r.drawRect(rc.X+rc.W-t, rc.Y, t, rc.H, clr, proj)
}

func (r *Renderer) drawRect(x, y, w, h float32, clr render.Color, proj [16]float32) {
	vertices := []float32{
		x, y,
		x + w, y,
		x + w, y + h,
		x, y,
		x + w, y + h,
		x, y + h,
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.projLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.colorLoc, 1, &clr[0])

	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// drawGlyph draws the atlas cell of op.Rune at the top left of op.Rect.
// Unknown characters fall back to '?'.
func (r *Renderer) drawGlyph(op render.Op, proj [16]float32) {
	a := &r.regular
	if op.Bold {
		a = &r.bold
	}
	glyph, ok := a.glyphs[op.Rune]
	if !ok {
		if glyph, ok = a.glyphs['?']; !ok {
			return
		}
	}
	w, h := float32(glyph.PixelWidth), float32(glyph.PixelHeight)
	r.drawTextured(a.texture, op.Rect.X, op.Rect.Y, w, h,
		glyph.X, glyph.Y, glyph.Width, glyph.Height, op.Color, proj)
}

// drawIcon draws a named icon centred in op.Rect. Icon textures are
// rasterized once per size.
func (r *Renderer) drawIcon(op render.Op, proj [16]float32) {
	size := int(min(op.Rect.W, op.Rect.H))
	if size <= 0 {
		return
	}
	key := iconKey{name: op.Icon, size: size}
	tex, ok := r.icons[key]
	if !ok {
		img, err := icons.Render(op.Icon, size)
		if err != nil {
			r.log.Warn("icon unavailable", "icon", op.Icon, "error", err)
			r.icons[key] = 0
			return
		}
		tex = uploadAlpha(img)
		r.icons[key] = tex
	}
	if tex == 0 {
		return
	}
	s := float32(size)
	x := op.Rect.X + (op.Rect.W-s)/2
	y := op.Rect.Y + (op.Rect.H-s)/2
	r.drawTextured(tex, x, y, s, s, 0, 0, 1, 1, op.Color, proj)
}

func (r *Renderer) drawTextured(tex uint32, x, y, w, h, tx, ty, tw, th float32, clr render.Color, proj [16]float32) {
	vertices := []float32{
		x, y, tx, ty,
		x + w, y, tx + tw, ty,
		x + w, y + h, tx + tw, ty + th,
		x, y, tx, ty,
		x + w, y + h, tx + tw, ty + th,
		x, y + h, tx, ty + th,
	}

	gl.UseProgram(r.texProgram)
	gl.UniformMatrix4fv(r.texProjLoc, 1, false, &proj[0])
	gl.Uniform4fv(r.texColorLoc, 1, &clr[0])
	gl.Uniform1i(r.texLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.BindVertexArray(r.texVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.texVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (r *Renderer) deleteAtlases() {
	for _, a := range []*atlas{&r.regular, &r.bold} {
		if a.texture != 0 {
			gl.DeleteTextures(1, &a.texture)
			a.texture = 0
		}
	}
}

// Destroy cleans up renderer resources
func (r *Renderer) Destroy() {
	r.deleteAtlases()
	for key, tex := range r.icons {
		if tex != 0 {
			gl.DeleteTextures(1, &tex)
		}
		delete(r.icons, key)
	}
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.texVAO)
	gl.DeleteBuffers(1, &r.texVBO)
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.texProgram)
}

// orthoMatrix creates an orthographic projection matrix
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// createProgram creates a shader program from vertex and fragment shader sources
func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
