package globe

import "math"

const (
	DefaultLatSegments = 64
	DefaultLonSegments = 128
)

// Mesh is an indexed triangle list with per-vertex normals and texture
// coordinates, laid out flat for upload.
type Mesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint16
}

func (m Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// UVSphere builds a unit sphere. Rows run south to north; u wraps around
// the equator with a duplicated seam column and v is flipped so the north
// pole samples the top of an equirectangular texture.
func UVSphere(lat, lon int) Mesh {
	if lat < 2 {
		lat = 2
	}
	if lon < 3 {
		lon = 3
	}
	verts := (lat + 1) * (lon + 1)
	m := Mesh{
		Positions: make([]float32, 0, verts*3),
		Normals:   make([]float32, 0, verts*3),
		TexCoords: make([]float32, 0, verts*2),
		Indices:   make([]uint16, 0, lat*lon*6),
	}
	for i := 0; i <= lat; i++ {
		v := float64(i) / float64(lat)
		phi := (v - 0.5) * math.Pi
		cphi, sphi := math.Cos(phi), math.Sin(phi)
		for j := 0; j <= lon; j++ {
			u := float64(j) / float64(lon)
			theta := u * 2 * math.Pi
			x := cphi * math.Cos(theta)
			y := sphi
			z := cphi * math.Sin(theta)
			m.Positions = append(m.Positions, float32(x), float32(y), float32(z))
			m.Normals = append(m.Normals, float32(x), float32(y), float32(z))
			m.TexCoords = append(m.TexCoords, float32(u), float32(1-v))
		}
	}
	stride := lon + 1
	for i := 0; i < lat; i++ {
		for j := 0; j < lon; j++ {
			i0 := i*stride + j
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			m.Indices = append(m.Indices,
				uint16(i0), uint16(i2), uint16(i1),
				uint16(i1), uint16(i2), uint16(i3))
		}
	}
	return m
}
