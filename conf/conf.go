// Package conf holds the numeric configuration shared by the analytic
// kernels: floating point precision for computed arrays and the Zernike
// indexing base. There is no process-wide singleton; functions that care
// about precision take a *Config, and New() provides the defaults.
package conf

import "errors"

// ErrBadPrecision is returned when a precision other than 32 or 64 bits is requested.
var ErrBadPrecision = errors.New("invalid precision: must be 32 or 64")

// ErrBadZernikeBase is returned when a Zernike base other than 0 or 1 is requested.
var ErrBadZernikeBase = errors.New("invalid zernike base: must be 0 or 1")

// Config carries the numeric settings for a computation.
type Config struct {
	precision   int // 32 or 64
	zernikeBase int // 0 or 1
}

// New returns a Config with the defaults: 64-bit precision, Zernike base 1.
func New() *Config {
	return &Config{precision: 64, zernikeBase: 1}
}

// SetPrecision selects 32- or 64-bit floating point for computed arrays.
func (c *Config) SetPrecision(bits int) error {
	if bits != 32 && bits != 64 {
		return ErrBadPrecision
	}
	c.precision = bits
	return nil
}

// Precision reports the configured precision in bits.
func (c *Config) Precision() int { return c.precision }

// SetZernikeBase selects whether Zernike terms index from 0 or 1.
func (c *Config) SetZernikeBase(base int) error {
	if base != 0 && base != 1 {
		return ErrBadZernikeBase
	}
	c.zernikeBase = base
	return nil
}

// ZernikeBase reports the configured Zernike indexing base.
func (c *Config) ZernikeBase() int { return c.zernikeBase }

// Cast rounds v through the configured precision. At 64 bits it is the
// identity; at 32 bits the value is truncated to float32 and widened back.
func (c *Config) Cast(v float64) float64 {
	if c.precision == 32 {
		return float64(float32(v))
	}
	return v
}

// CastMatrix applies Cast element-wise, returning a new matrix.
func (c *Config) CastMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		if c.precision == 32 {
			for j, v := range row {
				out[i][j] = float64(float32(v))
			}
		} else {
			copy(out[i], row)
		}
	}
	return out
}
