package foreign

import (
	"fmt"
	"math"

	"tan/internal/object"
)

func (r *Registry) fnClock() *object.Native {
	return &object.Native{
		Name:   "clock",
		Params: 0,
		Fn: func(args []object.Object) (object.Object, error) {
			now := r.now()
			seconds := float64(now.Unix()) + float64(now.Nanosecond())/1e9
			return &object.Number{Value: seconds}, nil
		},
	}
}

// fnStr formats any value the way print does.
func fnStr() *object.Native {
	return &object.Native{
		Name:   "str",
		Params: 1,
		Fn: func(args []object.Object) (object.Object, error) {
			return &object.String{Value: object.Stringify(args[0])}, nil
		},
	}
}

func unpackString(arg object.Object, fnName string, argName string) (string, error) {
	value, ok := arg.(*object.String)
	if !ok {
		return "", fmt.Errorf("%s: %s must be a string.", fnName, argName)
	}
	return value.Value, nil
}

func unpackHandle(arg object.Object, fnName string) (int64, error) {
	value, ok := arg.(*object.Number)
	if !ok || value.Value != math.Trunc(value.Value) {
		return 0, fmt.Errorf("%s: handle must be an integer.", fnName)
	}
	return int64(value.Value), nil
}
