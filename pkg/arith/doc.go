// Package arith provides exact modular arithmetic on arbitrary-precision integers.
package arith
