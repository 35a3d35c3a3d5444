// Package camera provides an orbit camera for viewing the point cloud.
package camera

import "math"

// Camera orbits a target point on the Z axis. Z is up; the sampled region
// lies in the XY plane.
type Camera struct {
	// TargetZ is the height of the orbit center
	TargetZ float32

	// Radius is the distance from the target
	Radius float32

	// Yaw is the angle around Z, Pitch the elevation above the XY plane (radians)
	Yaw, Pitch float32

	// AutoRotate spins the camera around Z
	AutoRotate bool

	// Radius constraints
	MinRadius, MaxRadius float32
}

// Defaults for a new camera.
const (
	defaultRadius = 6.0
	defaultYaw    = -2.2
	defaultPitch  = 0.6

	// dragScale converts mouse pixels to radians
	dragScale = 1.0 / 256

	// autoRotateSpeed in radians per second
	autoRotateSpeed = 0.3

	// pitchLimit keeps the camera off the poles
	pitchLimit = math.Pi/2 - 0.01
)

// New creates a camera looking at the origin region from above.
func New() *Camera {
	return &Camera{
		TargetZ:   1,
		Radius:    defaultRadius,
		Yaw:       defaultYaw,
		Pitch:     defaultPitch,
		MinRadius: 0.5,
		MaxRadius: 100,
	}
}

// Drag rotates the camera by a mouse movement in screen pixels.
func (c *Camera) Drag(dx, dy float32) {
	c.Yaw -= dx * dragScale
	c.Pitch = clamp(c.Pitch+dy*dragScale, -pitchLimit, pitchLimit)
}

// Scroll zooms by a mouse wheel movement. One wheel step of +8 halves the radius.
func (c *Camera) Scroll(wheel float32) {
	c.Radius = clamp(c.Radius*float32(math.Exp2(float64(-wheel/8))), c.MinRadius, c.MaxRadius)
}

// Update advances time-based motion.
func (c *Camera) Update(dt float32) {
	if c.AutoRotate {
		c.Yaw = wrapAngle(c.Yaw - autoRotateSpeed*dt)
	}
}

// Position returns the camera position in world coordinates.
func (c *Camera) Position() (x, y, z float32) {
	cp := float32(math.Cos(float64(c.Pitch)))
	sp := float32(math.Sin(float64(c.Pitch)))
	cy := float32(math.Cos(float64(c.Yaw)))
	sy := float32(math.Sin(float64(c.Yaw)))
	return c.Radius * cp * cy, c.Radius * cp * sy, c.TargetZ + c.Radius*sp
}

// Target returns the point the camera looks at.
func (c *Camera) Target() (x, y, z float32) {
	return 0, 0, c.TargetZ
}

// Reset returns the camera to the default orbit.
func (c *Camera) Reset() {
	c.Radius = defaultRadius
	c.Yaw = defaultYaw
	c.Pitch = defaultPitch
}

// wrapAngle wraps angle to [-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
