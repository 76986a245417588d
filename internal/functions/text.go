package functions

import (
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

var textDefs = []Def{
	{Name: "CONCAT", MinArgs: 1, MaxArgs: -1, Fn: fnConcat},
	{Name: "UPPER", MinArgs: 1, MaxArgs: 1, Fn: text1(strings.ToUpper)},
	{Name: "LOWER", MinArgs: 1, MaxArgs: 1, Fn: text1(strings.ToLower)},
	{Name: "TRIM", MinArgs: 1, MaxArgs: 1, Fn: text1(strings.TrimSpace)},
	{Name: "LEN", MinArgs: 1, MaxArgs: 1, Fn: fnLen},
	{Name: "LEFT", MinArgs: 1, MaxArgs: 2, Fn: fnLeft},
	{Name: "RIGHT", MinArgs: 1, MaxArgs: 2, Fn: fnRight},
}

func scalarText(a Arg) (string, error) {
	v, err := a.Scalar()
	if err != nil {
		return "", err
	}
	// any kind renders to text the way documents spell it
	return v.String(), nil
}

func text1(f func(string) string) func([]Arg) (model.Value, error) {
	return func(args []Arg) (model.Value, error) {
		s, err := scalarText(args[0])
		if err != nil {
			return model.Value{}, err
		}
		return model.Text(f(s)), nil
	}
}

func fnConcat(args []Arg) (model.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		s, err := scalarText(a)
		if err != nil {
			return model.Value{}, err
		}
		sb.WriteString(s)
	}
	return model.Text(sb.String()), nil
}

func fnLen(args []Arg) (model.Value, error) {
	s, err := scalarText(args[0])
	if err != nil {
		return model.Value{}, err
	}
	return model.Number(float64(len([]rune(s)))), nil
}

func textSlice(args []Arg, fromLeft bool) (model.Value, error) {
	s, err := scalarText(args[0])
	if err != nil {
		return model.Value{}, err
	}
	n := 1
	if len(args) == 2 {
		f, err := scalarNumber(args[1])
		if err != nil {
			return model.Value{}, err
		}
		n = int(f)
	}
	runes := []rune(s)
	if n < 0 {
		n = 0
	}
	if n > len(runes) {
		n = len(runes)
	}
	if fromLeft {
		return model.Text(string(runes[:n])), nil
	}
	return model.Text(string(runes[len(runes)-n:])), nil
}

func fnLeft(args []Arg) (model.Value, error)  { return textSlice(args, true) }
func fnRight(args []Arg) (model.Value, error) { return textSlice(args, false) }
