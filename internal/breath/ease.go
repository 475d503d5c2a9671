package breath

// Ease is a smoothstep curve over [0,1] mirrored over [1,2], so a hold phase
// driven with 2*progress/duration rises and falls back without a velocity jump
// at either boundary. Inputs outside [0,2] are clamped.
func Ease(x float64) float64 {
	x = min(max(x, 0), 2)
	if x > 1 {
		x = 2 - x
	}
	return -2*x*x*x + 3*x*x
}
