package interp

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// builtinModules mirrors the command tables that the code generator
// embeds into compiled programs, so both backends observe the same
// host library.
func builtinModules() map[string]Module {
	return map[string]Module{
		"str":  strModule(),
		"math": mathModule(),
		"sys":  sysModule(),
	}
}

func argN(args []Value, n int) error {
	if len(args) != n {
		return errors.New("wrong number of arguments")
	}
	return nil
}

func strModule() Module {
	return Module{
		"intInBase10": func(args []Value) (Value, error) {
			if err := argN(args, 1); err != nil {
				return nil, err
			}
			return strconv.FormatFloat(math.Trunc(toNumber(args[0])), 'f', -1, 64), nil
		},
		"length": func(args []Value) (Value, error) {
			if err := argN(args, 1); err != nil {
				return nil, err
			}
			return float64(utf8.RuneCountInString(Display(args[0]))), nil
		},
		"upper": func(args []Value) (Value, error) {
			if err := argN(args, 1); err != nil {
				return nil, err
			}
			return strings.ToUpper(Display(args[0])), nil
		},
		"lower": func(args []Value) (Value, error) {
			if err := argN(args, 1); err != nil {
				return nil, err
			}
			return strings.ToLower(Display(args[0])), nil
		},
		"concat": func(args []Value) (Value, error) {
			var sb strings.Builder
			for _, a := range args {
				sb.WriteString(Display(a))
			}
			return sb.String(), nil
		},
	}
}

func mathModule() Module {
	unary := func(fn func(float64) float64) Command {
		return func(args []Value) (Value, error) {
			if err := argN(args, 1); err != nil {
				return nil, err
			}
			return fn(toNumber(args[0])), nil
		}
	}
	binary := func(fn func(a, b float64) float64) Command {
		return func(args []Value) (Value, error) {
			if err := argN(args, 2); err != nil {
				return nil, err
			}
			return fn(toNumber(args[0]), toNumber(args[1])), nil
		}
	}
	return Module{
		"abs":   unary(math.Abs),
		"ceil":  unary(math.Ceil),
		"floor": unary(math.Floor),
		// Half-up rounding, matching the generated program's Math.round.
		"round": unary(func(n float64) float64 { return math.Floor(n + 0.5) }),
		"sqrt":  unary(math.Sqrt),
		"max":   binary(math.Max),
		"min":   binary(math.Min),
		"pi": func(args []Value) (Value, error) {
			if err := argN(args, 0); err != nil {
				return nil, err
			}
			return math.Pi, nil
		},
		"random": func(args []Value) (Value, error) {
			if err := argN(args, 0); err != nil {
				return nil, err
			}
			return rand.Float64(), nil
		},
	}
}

func sysModule() Module {
	return Module{
		"time": func(args []Value) (Value, error) {
			if err := argN(args, 0); err != nil {
				return nil, err
			}
			return float64(time.Now().UnixMilli()), nil
		},
		"platform": func(args []Value) (Value, error) {
			if err := argN(args, 0); err != nil {
				return nil, err
			}
			return "interp", nil
		},
	}
}
