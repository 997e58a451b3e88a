package boundprune

import "math"

// applyActivation applies the named activation function. "clip" saturates
// at [0, 1] and matches the bounded table-lookup nonlinearities used for
// encrypted inference.
func applyActivation(value float64, activation string) float64 {
	switch activation {
	case "relu":
		return math.Max(0, value)
	case "sigmoid":
		return 1 / (1 + math.Exp(-value))
	case "tanh":
		return math.Tanh(value)
	case "leaky_relu":
		if value > 0 {
			return value
		}
		return 0.01 * value
	case "clip":
		if value < 0 {
			return 0
		}
		if value > 1 {
			return 1
		}
		return value
	case "linear":
		return value
	default:
		return value // fallback to linear
	}
}

// activationDerivative computes the derivative of the activation function
// at the given post-activation value.
func activationDerivative(value float64, activation string) float64 {
	switch activation {
	case "relu":
		if value > 0 {
			return 1
		}
		return 0
	case "sigmoid":
		sig := 1 / (1 + math.Exp(-value))
		return sig * (1 - sig)
	case "tanh":
		t := math.Tanh(value)
		return 1 - t*t
	case "leaky_relu":
		if value > 0 {
			return 1
		}
		return 0.01
	case "clip":
		if value > 0 && value < 1 {
			return 1
		}
		return 0
	case "linear":
		return 1
	default:
		return 1
	}
}
