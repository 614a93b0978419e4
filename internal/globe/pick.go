package globe

import "math"

// Pick targets are 8 bits per channel, so u and v are each quantised to
// 12 bits: the low bytes go in R and G, the high nibbles share B. Alpha is
// 255 on the sphere and 0 where the buffer was cleared.
const (
	uvBits   = 12
	uvLevels = 1<<uvBits - 1
)

type Texel struct {
	R, G, B, A uint8
}

// EncodeUV mirrors the pick fragment shader.
func EncodeUV(u, v float64) Texel {
	qu := quantise(u)
	qv := quantise(v)
	return Texel{
		R: uint8(qu & 0xff),
		G: uint8(qv & 0xff),
		B: uint8((qu>>8)&0x0f | ((qv>>8)&0x0f)<<4),
		A: 255,
	}
}

func quantise(x float64) int {
	x = math.Max(0, math.Min(1, x))
	return int(math.Round(x * uvLevels))
}

// DecodeTexel recovers (u, v). ok is false for background texels.
func DecodeTexel(t Texel) (u, v float64, ok bool) {
	if t.A == 0 {
		return 0, 0, false
	}
	qu := int(t.R) | int(t.B&0x0f)<<8
	qv := int(t.G) | int(t.B>>4)<<8
	return float64(qu) / uvLevels, float64(qv) / uvLevels, true
}

// PickVertexShader passes texture coordinates through unchanged, using the
// attribute and uniform names raylib binds by default.
const PickVertexShader = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
uniform mat4 mvp;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertexTexCoord;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// PickFragmentShader writes the interpolated texture coordinate using the
// encoding above.
const PickFragmentShader = `#version 330
in vec2 fragTexCoord;
out vec4 finalColor;

void main() {
    vec2 uv = clamp(fragTexCoord, 0.0, 1.0);
    float qu = floor(uv.x * 4095.0 + 0.5);
    float qv = floor(uv.y * 4095.0 + 0.5);
    float lu = mod(qu, 256.0);
    float lv = mod(qv, 256.0);
    float hu = floor(qu / 256.0);
    float hv = floor(qv / 256.0);
    finalColor = vec4(lu / 255.0, lv / 255.0, (hu + hv * 16.0) / 255.0, 1.0);
}
`

// ScalePointer converts a window-space pointer to framebuffer pixels.
func ScalePointer(mx, my float64, winW, winH, fbW, fbH int) (int, int) {
	if winW <= 0 || winH <= 0 {
		return int(mx), int(my)
	}
	px := int(mx * float64(fbW) / float64(winW))
	py := int(my * float64(fbH) / float64(winH))
	return px, py
}

// ReadbackPixel clamps (px, py) to the target and flips y into the
// bottom-up row order of GL framebuffers.
func ReadbackPixel(px, py, w, h int) (int, int) {
	rx := clampInt(px, 0, w-1)
	ry := clampInt(h-1-py, 0, h-1)
	return rx, ry
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// CoordinatesFromUV snaps (u, v) to the centre of the covering texel of a
// texW x texH equirectangular texture and converts that to degrees.
func CoordinatesFromUV(u, v float64, texW, texH int) Coordinates {
	if texW <= 0 || texH <= 0 {
		return Coordinates{Latitude: 90 - v*180, Longitude: u*360 - 180}
	}
	ix := int(math.Floor(u*float64(texW)+0.5)) % texW
	if ix < 0 {
		ix += texW
	}
	iy := clampInt(int(math.Floor(v*float64(texH)+0.5)), 0, texH-1)
	uc := (float64(ix) + 0.5) / float64(texW)
	vc := (float64(iy) + 0.5) / float64(texH)
	return Coordinates{
		Latitude:  90 - vc*180,
		Longitude: uc*360 - 180,
	}
}

// Readback reads one texel from the pick target in framebuffer
// coordinates with y already flipped.
type Readback interface {
	Size() (w, h int)
	ReadTexel(x, y int) (Texel, bool)
}

type Picker struct {
	Source   Readback
	TextureW int
	TextureH int
}

// Pick resolves a framebuffer pixel to coordinates. It returns nil when
// the pointer misses the sphere or the readback fails.
func (p Picker) Pick(px, py int) *Coordinates {
	if p.Source == nil {
		return nil
	}
	w, h := p.Source.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	rx, ry := ReadbackPixel(px, py, w, h)
	t, ok := p.Source.ReadTexel(rx, ry)
	if !ok {
		return nil
	}
	u, v, hit := DecodeTexel(t)
	if !hit {
		return nil
	}
	c := CoordinatesFromUV(u, v, p.TextureW, p.TextureH)
	return &c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
