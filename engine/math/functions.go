package math

import (
	m "math"
)

const (
	/** @brief The largest finite float32. */
	K_FLOAT_MAX float32 = 3.40282346638528859811704183484516925440e+38
)

/**
 * Note that these are here in order to prevent having to import the
 * entire <math.h> everywhere.
 */
func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func kacos(x float32) float32 {
	return float32(m.Acos(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kpow(x, y float32) float32 {
	return float32(m.Pow(float64(x), float64(y)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	return !m.IsNaN(float64(x)) && !m.IsInf(float64(x), 0)
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @return A new 3-element vector.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{
		X: x,
		Y: y,
		Z: z,
	}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.0f.
 */
func NewVec3Zero() Vec3 {
	return Vec3{0.0, 0.0, 0.0}
}

/**
 * @brief Adds other to v and returns a copy of the result.
 */
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z}
}

/**
 * @brief Subtracts other from v and returns a copy of the result.
 */
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z}
}

/**
 * @brief Multiplies all elements of v by scalar and returns a copy of the result.
 */
func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar}
}

/**
 * @brief Returns the squared length of the provided vector.
 */
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a unit-length copy of v. A zero-length or non-finite
 * vector yields the zero vector instead of NaN components.
 */
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 || !IsFinite(length) {
		return NewVec3Zero()
	}
	return Vec3{
		v.X / length,
		v.Y / length,
		v.Z / length}
}

/**
 * @brief Returns the dot product between v and other.
 */
func (v Vec3) Dot(other Vec3) float32 {
	p := float32(0)
	p += v.X * other.X
	p += v.Y * other.Y
	p += v.Z * other.Z
	return p
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Linearly interpolates from v towards other by t.
 */
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).MulScalar(t))
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 *
 * @param tolerance The difference tolerance.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	if kabs(v.X-other.X) > tolerance {
		return false
	}

	if kabs(v.Y-other.Y) > tolerance {
		return false
	}

	if kabs(v.Z-other.Z) > tolerance {
		return false
	}

	return true
}

// ------------------------------------------
// Quaternion
// ------------------------------------------

/**
 * @brief Creates a quaternion from its real part x and imaginary parts y, z, w.
 */
func NewQuat(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

/**
 * @brief Adds other to q component-wise.
 */
func (q Quaternion) Add(other Quaternion) Quaternion {
	return Quaternion{q.X + other.X, q.Y + other.Y, q.Z + other.Z, q.W + other.W}
}

/**
 * @brief Subtracts other from q component-wise.
 */
func (q Quaternion) Sub(other Quaternion) Quaternion {
	return Quaternion{q.X - other.X, q.Y - other.Y, q.Z - other.Z, q.W - other.W}
}

/**
 * @brief Returns x² + y² + z² + w².
 */
func (q Quaternion) SelfDot() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

/**
 * @brief Returns the Euclidean length of q.
 */
func (q Quaternion) Magnitude() float32 {
	return ksqrt(q.SelfDot())
}

/**
 * @brief Returns the conjugate of q. The imaginary parts are negated,
 * the real part x is untouched.
 */
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.X, -q.Y, -q.Z, -q.W}
}

/**
 * @brief Returns conjugate(q) / self_dot(q). The zero quaternion has no
 * inverse and yields zero.
 */
func (q Quaternion) Inverse() Quaternion {
	sd := q.SelfDot()
	if sd == 0 {
		return Quaternion{}
	}
	c := q.Conjugate()
	return Quaternion{c.X / sd, c.Y / sd, c.Z / sd, c.W / sd}
}

/**
 * @brief Raises q to the power beta using the polar form.
 *
 * The real part becomes |q|^|β|·cos(|β|·θ) with θ = acos(x/|q|), and each
 * imaginary part receives its share of |q|^|β|·sin(|β|·θ). A negative beta
 * additionally inverts the result. The zero quaternion maps to zero.
 *
 * @param beta The exponent.
 * @return q raised to beta.
 */
func (q Quaternion) Pow(beta float32) Quaternion {
	selfDot := q.SelfDot()
	if selfDot == 0 {
		return Quaternion{}
	}

	fabsBeta := kabs(beta)
	length := ksqrt(selfDot)
	selfDotBeta := kpow(selfDot, fabsBeta/2.0)
	theta := fabsBeta * kacos(Clamp(q.X/length, -1, 1))

	out := Quaternion{X: selfDotBeta * kcos(theta)}

	// A purely real q has no imaginary direction to distribute into.
	imaginary := ksqrt(q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if imaginary != 0 {
		s := selfDotBeta * ksin(theta) / imaginary
		out.Y = q.Y * s
		out.Z = q.Z * s
		out.W = q.W * s
	}

	if beta < 0 {
		out = out.Inverse()
	}
	return out
}

/**
 * @brief Compares all elements of q and other against tolerance.
 */
func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return kabs(q.X-other.X) <= tolerance &&
		kabs(q.Y-other.Y) <= tolerance &&
		kabs(q.Z-other.Z) <= tolerance &&
		kabs(q.W-other.W) <= tolerance
}
