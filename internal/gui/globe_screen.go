package gui

import (
	"errors"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/globe"
)

const defaultEarthTexture = "assets/earth.jpg"

type sphereVertex struct {
	x, y, z float32
	u, v    float32
}

type globeState struct {
	loaded     bool
	camera     globe.Camera
	earth      rl.Texture2D
	pickShader rl.Shader
	pickTarget rl.RenderTexture2D
	vertices   []sphereVertex
	last       *globe.Coordinates
	status     string
}

// sphereVertices expands the indexed mesh into a triangle list scaled to
// the globe radius, ready for immediate-mode drawing.
func sphereVertices(m globe.Mesh, radius float32) []sphereVertex {
	out := make([]sphereVertex, 0, len(m.Indices))
	for _, idx := range m.Indices {
		i := int(idx)
		out = append(out, sphereVertex{
			x: m.Positions[i*3] * radius,
			y: m.Positions[i*3+1] * radius,
			z: m.Positions[i*3+2] * radius,
			u: m.TexCoords[i*2],
			v: m.TexCoords[i*2+1],
		})
	}
	return out
}

func (ui *gameUI) enterGlobe() error {
	g := &ui.globe
	if !g.loaded {
		g.camera = globe.NewCamera()
		g.earth = loadEarthTexture(ui.cfg.EarthTexture)
		g.pickShader = rl.LoadShaderFromMemory(globe.PickVertexShader, globe.PickFragmentShader)
		if g.pickShader.ID == 0 {
			rl.UnloadTexture(g.earth)
			return errors.New("compile pick shader")
		}
		g.vertices = sphereVertices(globe.UVSphere(globe.DefaultLatSegments, globe.DefaultLonSegments), globe.SphereRadius)
		g.loaded = true
	}
	ui.ensurePickTarget()
	g.status = "Drag to rotate. Right-click to choose a farm. R resets, Esc quits."
	ui.screen = screenGlobe
	return nil
}

// loadEarthTexture falls back to a checker texture when the image is
// missing so the globe still renders and picks.
func loadEarthTexture(path string) rl.Texture2D {
	if _, err := os.Stat(path); err == nil {
		if tex := rl.LoadTexture(path); tex.ID != 0 {
			rl.SetTextureFilter(tex, rl.FilterBilinear)
			return tex
		}
	}
	img := rl.GenImageChecked(1024, 512, 32, 16, rl.NewColor(0x2E, 0x6B, 0xA8, 255), rl.NewColor(0x4F, 0x8F, 0x45, 255))
	defer rl.UnloadImage(img)
	return rl.LoadTextureFromImage(img)
}

// ensurePickTarget keeps the offscreen target at framebuffer resolution.
func (ui *gameUI) ensurePickTarget() {
	g := &ui.globe
	w, h := int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight())
	if g.pickTarget.ID != 0 && g.pickTarget.Texture.Width == w && g.pickTarget.Texture.Height == h {
		return
	}
	if g.pickTarget.ID != 0 {
		rl.UnloadRenderTexture(g.pickTarget)
	}
	g.pickTarget = rl.LoadRenderTexture(w, h)
}

func (ui *gameUI) unloadGlobe() {
	g := &ui.globe
	if !g.loaded {
		return
	}
	rl.UnloadShader(g.pickShader)
	rl.UnloadTexture(g.earth)
	if g.pickTarget.ID != 0 {
		rl.UnloadRenderTexture(g.pickTarget)
	}
	*g = globeState{}
}

func (ui *gameUI) updateGlobe() {
	g := &ui.globe
	if rl.IsKeyPressed(rl.KeyEscape) {
		ui.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.camera.Reset()
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		g.camera.Drag(float64(d.X), float64(d.Y))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.Zoom(float64(wheel))
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		return
	}

	ui.ensurePickTarget()
	ui.renderPickPass()
	px, py := pointerPosition(g.pickTarget.Texture.Width, g.pickTarget.Texture.Height)
	picker := globe.Picker{
		Source:   targetReadback{target: g.pickTarget},
		TextureW: int(g.earth.Width),
		TextureH: int(g.earth.Height),
	}
	coords := picker.Pick(px, py)
	if coords == nil {
		g.status = "That's space. Right-click on the globe."
		return
	}
	g.last = coords
	ui.log.Info("location picked", "latitude", coords.Latitude, "longitude", coords.Longitude)
	ui.startFetch(*coords)
}

func (g *globeState) camera3D() rl.Camera3D {
	e := g.camera.Eye()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(e.X), float32(e.Y), float32(e.Z)),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       globe.FieldOfViewDeg,
		Projection: rl.CameraPerspective,
	}
}

// renderPickPass draws the globe into the pick target with texture
// coordinates encoded as colour. Cleared pixels keep alpha 0.
func (ui *gameUI) renderPickPass() {
	g := &ui.globe
	rl.BeginTextureMode(g.pickTarget)
	rl.ClearBackground(rl.Blank)
	rl.BeginMode3D(g.camera3D())
	rl.BeginShaderMode(g.pickShader)
	drawSphere(g.vertices, 0)
	rl.EndShaderMode()
	rl.EndMode3D()
	rl.EndTextureMode()
}

func drawSphere(verts []sphereVertex, textureID uint32) {
	rl.SetTexture(textureID)
	rl.Begin(rl.Triangles)
	rl.Color4ub(255, 255, 255, 255)
	for _, v := range verts {
		rl.TexCoord2f(v.u, v.v)
		rl.Vertex3f(v.x, v.y, v.z)
	}
	rl.End()
	rl.SetTexture(0)
}

func (ui *gameUI) drawGlobe() {
	g := &ui.globe
	rl.ClearBackground(rl.NewColor(5, 8, 16, 255))
	rl.BeginMode3D(g.camera3D())
	drawSphere(g.vertices, g.earth.ID)
	rl.EndMode3D()

	drawText("Choose your farm", int32(spaceM), int32(spaceM), typeScale.Title, colorText)
	drawText(g.status, int32(spaceM), ui.height-int32(spaceM)-typeScale.Body, typeScale.Body, colorDim)
	if g.last != nil {
		drawText("Last pick: "+g.last.String(), int32(spaceM), int32(spaceM)+textLineHeight(typeScale.Title), typeScale.Body, colorAccent)
	}
}

// targetReadback reads texels back from the pick target.
type targetReadback struct {
	target rl.RenderTexture2D
}

func (r targetReadback) Size() (int, int) {
	return int(r.target.Texture.Width), int(r.target.Texture.Height)
}

func (r targetReadback) ReadTexel(x, y int) (globe.Texel, bool) {
	img := rl.LoadImageFromTexture(r.target.Texture)
	if img == nil || img.Width == 0 || img.Height == 0 {
		return globe.Texel{}, false
	}
	defer rl.UnloadImage(img)
	if x < 0 || y < 0 || x >= int(img.Width) || y >= int(img.Height) {
		return globe.Texel{}, false
	}
	c := rl.GetImageColor(*img, int32(x), int32(y))
	return globe.Texel{R: c.R, G: c.G, B: c.B, A: c.A}, true
}
