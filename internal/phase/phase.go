// Package phase implements directional scattering probability
// distributions (phase functions) for participating media.
package phase

import "github.com/go-gl/mathgl/mgl32"

// Sample is the result of importance-sampling an outgoing direction from a
// phase function: the density at the sampled direction (equal to p, since
// phase function sampling is perfectly importance sampled) and the
// direction itself.
type Sample struct {
	PDF float32
	Wi  mgl32.Vec3
	P   float32
}

// Function is a normalized directional scattering density. HenyeyGreenstein,
// a plain value struct, is its only implementation. Media store their phase
// function as that concrete type, but MediumProperties and
// MediumInteraction carry it as a Function, so calls made through those
// fields are interface method calls.
type Function interface {
	// P returns the value of the normalized phase density for the given
	// incident (wo) and outgoing (wi) directions, both unit vectors
	// pointing away from the scattering point.
	P(wo, wi mgl32.Vec3) float32
	// SampleP draws an outgoing direction given wo and a uniform sample
	// u in [0, 1)^2. ok is false only if no direction could be sampled.
	SampleP(wo mgl32.Vec3, u [2]float32) (Sample, bool)
	// PDF returns the same density as P (phase functions are self-pdf).
	PDF(wo, wi mgl32.Vec3) float32
}
