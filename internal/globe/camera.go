package globe

import "math"

const (
	DefaultDistance  = 2.5
	DragSensitivity  = 0.005
	SphereRadius     = 0.7
	FieldOfViewDeg   = 60.0
	pitchLimit       = math.Pi/2 - 0.01
	minOrbitDistance = 1.0
	maxOrbitDistance = 10.0
	zoomStepPerNotch = 0.1
)

type Vec3 struct {
	X, Y, Z float64
}

// Camera orbits the origin at a fixed distance, looking at the globe centre
// with +Y up.
type Camera struct {
	Yaw      float64
	Pitch    float64
	Distance float64
}

func NewCamera() Camera {
	return Camera{Distance: DefaultDistance}
}

// Drag rotates by a pointer delta in pixels. Pitch stays just short of the
// poles so the view never flips.
func (c *Camera) Drag(dx, dy float64) {
	c.Yaw += dx * DragSensitivity
	c.Pitch += dy * DragSensitivity
	c.Pitch = math.Max(-pitchLimit, math.Min(pitchLimit, c.Pitch))
}

// Zoom moves the camera along its orbit radius by wheel notches.
func (c *Camera) Zoom(notches float64) {
	c.Distance -= notches * zoomStepPerNotch
	c.Distance = math.Max(minOrbitDistance, math.Min(maxOrbitDistance, c.Distance))
}

func (c *Camera) Reset() {
	c.Yaw = 0
	c.Pitch = 0
}

func (c Camera) Eye() Vec3 {
	return Vec3{
		X: c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw),
	}
}
