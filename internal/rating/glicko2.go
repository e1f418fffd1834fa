// internal/rating/glicko2.go
package rating

import "math"

const (
	// GlickoScale converts between the 1500-based display scale and Glicko-2's mu.
	GlickoScale = 173.7178
	// DefaultRating is the baseline display rating.
	DefaultRating = 1500.0
	// DefaultRD is the baseline rating deviation on the display scale.
	DefaultRD = 350.0
	// DefaultSigma is the starting volatility.
	DefaultSigma = 0.06
	// Tau is the constraint on volatility changes.
	Tau = 0.5
	// Epsilon is the tolerance used in iteration stopping conditions.
	Epsilon = 0.000001
)

// glicko holds mu, phi and sigma in Glicko-2 space.
type glicko struct {
	mu, phi, sigma float64
}

func toGlicko(rating, rd, sigma float64) glicko {
	return glicko{mu: (rating - DefaultRating) / GlickoScale, phi: rd / GlickoScale, sigma: sigma}
}

func (r glicko) rating() float64 { return r.mu*GlickoScale + DefaultRating }
func (r glicko) rd() float64     { return r.phi * GlickoScale }

// update performs one Glicko-2 period for r against a single opponent with
// score in [0,1].
func update(r, opp glicko, score float64) glicko {
	gVal := g(opp.phi)
	eVal := expected(r.mu, opp.mu, opp.phi)

	v := 1.0 / (gVal * gVal * eVal * (1 - eVal))
	delta := v * gVal * (score - eVal)

	a := math.Log(r.sigma * r.sigma)
	A := a
	var B float64
	if delta*delta > r.phi*r.phi+v {
		B = math.Log(delta*delta - r.phi*r.phi - v)
	} else {
		k := 1.0
		for f(a-k*Tau, r.phi, v, delta, a) < 0 {
			k++
		}
		B = a - k*Tau
	}

	fA, fB := f(A, r.phi, v, delta, a), f(B, r.phi, v, delta, a)
	for i := 0; i < 100 && math.Abs(B-A) > Epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C, r.phi, v, delta, a)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	newSigma := math.Exp(A / 2)
	phiStar := math.Sqrt(r.phi*r.phi + newSigma*newSigma)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := r.mu + phiPrime*phiPrime*gVal*(score-eVal)

	return glicko{mu: muPrime, phi: phiPrime, sigma: newSigma}
}

// g is 1/sqrt(1+3phi^2/pi^2).
func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/math.Pi/math.Pi)
}

// expected is the win expectancy of mu against mu2 with deviation phi2.
func expected(mu, mu2, phi2 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phi2)*(mu-mu2)))
}

// f is the volatility root-finding function.
func f(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return (num / den) - ((x - a) / (Tau * Tau))
}
