package lang

// This file defines the builtin static classes available to every
// expression through [NewRegistry].

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/mung"
)

type class struct {
	name   string
	funcs  []Func
	fields map[string]any
}

func builtinClasses() []class {
	return []class{
		mathClass(),
		stringsClass(),
		listsClass(),
		datesClass(),
		pathsClass(),
		exprClass(),
	}
}

// fn adapts a function of exact arity.
func fn(name string, arity int, call func(args ...any) (any, error)) Func {
	return Func{Name: name, MinArgs: arity, MaxArgs: arity, Call: call}
}

func variadic(name string, minArgs int, call func(args ...any) (any, error)) Func {
	return Func{Name: name, MinArgs: minArgs, MaxArgs: -1, Call: call}
}

func argFloat(args []any, i int) (float64, error) {
	f, ok := ToFloat(args[i])
	if !ok {
		return 0, ErrOperandType.With(slog.Int("arg", i), slog.String("type", typeName(args[i])))
	}

	return f, nil
}

func argInt(args []any, i int) (int, error) {
	n, ok := ToInt(args[i])
	if !ok {
		return 0, ErrOperandType.With(slog.Int("arg", i), slog.String("type", typeName(args[i])))
	}

	return n, nil
}

func argTime(args []any, i int) (time.Time, error) {
	t, ok := args[i].(time.Time)
	if !ok {
		return time.Time{}, ErrOperandType.With(slog.Int("arg", i), slog.String("type", typeName(args[i])))
	}

	return t, nil
}

// argList flattens a single collection argument, or returns args as given.
func argList(args []any) []any {
	if len(args) == 1 {
		if items, ok := Items(args[0]); ok {
			return items
		}
	}

	return args
}

// --- Math ---------------------------------------------------------------

func mathClass() class {
	extreme := func(name string, want int) Func {
		return variadic("Math."+name, 1, func(args ...any) (any, error) {
			items := argList(args)
			if len(items) == 0 {
				return nil, nil
			}

			best := items[0]

			for _, v := range items[1:] {
				n, ok := Compare(v, best)
				if !ok {
					return nil, operandError(name, best, v)
				}

				if n == want {
					best = v
				}
			}

			return best, nil
		})
	}

	unary := func(name string, op func(float64) float64) Func {
		return fn("Math."+name, 1, func(args ...any) (any, error) {
			if n, k := number(args[0]); k == kindInt {
				return n, nil
			}

			f, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}

			return op(f), nil
		})
	}

	return class{
		name: "Math",
		funcs: []Func{
			extreme("max", 1),
			extreme("min", -1),
			unary("floor", math.Floor),
			unary("ceil", math.Ceil),
			fn("Math.abs", 1, func(args ...any) (any, error) {
				n, k := number(args[0])
				switch k {
				case kindInt:
					if i := asInt(n); i < 0 {
						return -i, nil
					}

					return n, nil
				case notNumber:
					return nil, operandError("abs", args[0], nil)
				default:
					return math.Abs(asFloat(n)), nil
				}
			}),
			Func{Name: "Math.round", MinArgs: 1, MaxArgs: 2, Call: func(args ...any) (any, error) {
				f, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}

				if len(args) == 1 {
					return int64(math.Round(f)), nil
				}

				places, err := argInt(args, 1)
				if err != nil {
					return nil, err
				}

				scale := math.Pow(10, float64(places))

				return math.Round(f*scale) / scale, nil
			}},
			fn("Math.pow", 2, func(args ...any) (any, error) {
				b, err := argFloat(args, 0)
				if err != nil {
					return nil, err
				}

				x, err := argFloat(args, 1)
				if err != nil {
					return nil, err
				}

				return math.Pow(b, x), nil
			}),
			variadic("Math.sum", 0, func(args ...any) (any, error) {
				return sum(argList(args))
			}),
			variadic("Math.avg", 0, func(args ...any) (any, error) {
				items := argList(args)
				if len(items) == 0 {
					return nil, nil
				}

				total, err := sum(items)
				if err != nil {
					return nil, err
				}

				return asFloat(total) / float64(len(items)), nil
			}),
		},
		fields: map[string]any{
			"PI": math.Pi,
			"E":  math.E,
		},
	}
}

func sum(items []any) (any, error) {
	var total any = int64(0)

	for _, v := range items {
		if v == nil {
			continue
		}

		t, err := arithmetic("+", total, v)
		if err != nil {
			return nil, err
		}

		total = t
	}

	return total, nil
}

// --- Strings ------------------------------------------------------------

func stringsClass() class {
	text := func(name string, op func(string) string) Func {
		return fn("Strings."+name, 1, func(args ...any) (any, error) {
			return op(Text(args[0])), nil
		})
	}

	pad := func(name string, left bool) Func {
		return Func{Name: "Strings." + name, MinArgs: 2, MaxArgs: 3, Call: func(args ...any) (any, error) {
			s := Text(args[0])

			n, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}

			fill := " "
			if len(args) == 3 && Text(args[2]) != "" {
				fill = Text(args[2])
			}

			count := n - len([]rune(s))
			if count <= 0 {
				return s, nil
			}

			padding := strings.Repeat(fill, count)
			padding = string([]rune(padding)[:count])

			if left {
				return padding + s, nil
			}

			return s + padding, nil
		}}
	}

	return class{
		name: "Strings",
		funcs: []Func{
			text("upper", strings.ToUpper),
			text("lower", strings.ToLower),
			text("trim", strings.TrimSpace),
			text("title", func(s string) string {
				words := strings.Fields(s)
				for i, w := range words {
					r := []rune(w)
					words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
				}

				return strings.Join(words, " ")
			}),
			fn("Strings.len", 1, func(args ...any) (any, error) {
				return int64(len([]rune(Text(args[0])))), nil
			}),
			fn("Strings.contains", 2, func(args ...any) (any, error) {
				return strings.Contains(Text(args[0]), Text(args[1])), nil
			}),
			fn("Strings.replace", 3, func(args ...any) (any, error) {
				return strings.ReplaceAll(Text(args[0]), Text(args[1]), Text(args[2])), nil
			}),
			fn("Strings.repeat", 2, func(args ...any) (any, error) {
				n, err := argInt(args, 1)
				if err != nil {
					return nil, err
				}

				return strings.Repeat(Text(args[0]), max(n, 0)), nil
			}),
			fn("Strings.split", 2, func(args ...any) (any, error) {
				parts := strings.Split(Text(args[0]), Text(args[1]))
				out := make([]any, len(parts))

				for i, p := range parts {
					out[i] = p
				}

				return out, nil
			}),
			fn("Strings.join", 2, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				parts := make([]string, len(items))

				for i, v := range items {
					parts[i] = Text(v)
				}

				return strings.Join(parts, Text(args[1])), nil
			}),
			variadic("Strings.format", 1, func(args ...any) (any, error) {
				return fmt.Sprintf(Text(args[0]), args[1:]...), nil
			}),
			variadic("Strings.concat", 0, func(args ...any) (any, error) {
				var sb strings.Builder
				for _, v := range args {
					sb.WriteString(Text(v))
				}

				return sb.String(), nil
			}),
			pad("padLeft", true),
			pad("padRight", false),
			fn("Strings.isBlank", 1, func(args ...any) (any, error) {
				return strings.TrimSpace(Text(args[0])) == "", nil
			}),
		},
	}
}

// --- Lists --------------------------------------------------------------

func listsClass() class {
	return class{
		name: "Lists",
		funcs: []Func{
			fn("Lists.size", 1, func(args ...any) (any, error) {
				n, err := Length(args[0])

				return int64(n), err
			}),
			fn("Lists.first", 1, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				if len(items) == 0 {
					return nil, nil
				}

				return items[0], nil
			}),
			fn("Lists.last", 1, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				if len(items) == 0 {
					return nil, nil
				}

				return items[len(items)-1], nil
			}),
			Func{Name: "Lists.range", MinArgs: 1, MaxArgs: 2, Call: func(args ...any) (any, error) {
				from, to := 0, 0

				var err error

				if len(args) == 1 {
					to, err = argInt(args, 0)
				} else if from, err = argInt(args, 0); err == nil {
					to, err = argInt(args, 1)
				}

				if err != nil {
					return nil, err
				}

				out := make([]any, 0, max(to-from, 0))
				for i := from; i < to; i++ {
					out = append(out, int64(i))
				}

				return out, nil
			}},
			fn("Lists.distinct", 1, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				out := make([]any, 0, len(items))

				for _, v := range items {
					if !slices.ContainsFunc(out, func(o any) bool { return Equal(o, v) }) {
						out = append(out, v)
					}
				}

				return out, nil
			}),
			fn("Lists.reverse", 1, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				out := slices.Clone(items)
				slices.Reverse(out)

				return out, nil
			}),
			fn("Lists.sort", 1, func(args ...any) (any, error) {
				items, _ := Items(args[0])
				out := slices.Clone(items)
				slices.SortStableFunc(out, func(a, b any) int {
					if n, ok := Compare(a, b); ok {
						return n
					}

					return strings.Compare(Text(a), Text(b))
				})

				return out, nil
			}),
			variadic("Lists.of", 0, func(args ...any) (any, error) {
				return slices.Clone(args), nil
			}),
		},
	}
}

// --- Dates --------------------------------------------------------------

func datesClass() class {
	return class{
		name: "Dates",
		funcs: []Func{
			fn("Dates.now", 0, func(...any) (any, error) {
				return time.Now(), nil
			}),
			fn("Dates.format", 2, func(args ...any) (any, error) {
				t, err := argTime(args, 0)
				if err != nil {
					return nil, err
				}

				return CompileDatePattern(Text(args[1])).Format(t), nil
			}),
			fn("Dates.parse", 2, func(args ...any) (any, error) {
				return CompileDatePattern(Text(args[1])).Parse(Text(args[0]), time.Local)
			}),
			fn("Dates.addDays", 2, func(args ...any) (any, error) {
				t, err := argTime(args, 0)
				if err != nil {
					return nil, err
				}

				n, err := argInt(args, 1)
				if err != nil {
					return nil, err
				}

				return t.AddDate(0, 0, n), nil
			}),
			fn("Dates.year", 1, func(args ...any) (any, error) {
				t, err := argTime(args, 0)

				return int64(t.Year()), err
			}),
			fn("Dates.month", 1, func(args ...any) (any, error) {
				t, err := argTime(args, 0)

				return int64(t.Month()), err
			}),
			fn("Dates.day", 1, func(args ...any) (any, error) {
				t, err := argTime(args, 0)

				return int64(t.Day()), err
			}),
		},
	}
}

// --- Paths --------------------------------------------------------------

func pathsClass() class {
	return class{
		name: "Paths",
		funcs: []Func{
			variadic("Paths.prefix", 1, func(args ...any) (any, error) {
				return pathsPrefix(Text(args[0]), texts(args[1:])...), nil
			}),
			variadic("Paths.prefixIf", 1, func(args ...any) (any, error) {
				return pathsPrefixIf(Text(args[0]), pathExists, texts(args[1:])...), nil
			}),
			variadic("Paths.join", 0, func(args ...any) (any, error) {
				return filepath.Join(texts(args)...), nil
			}),
			fn("Paths.base", 1, func(args ...any) (any, error) {
				return filepath.Base(Text(args[0])), nil
			}),
			fn("Paths.dir", 1, func(args ...any) (any, error) {
				return filepath.Dir(Text(args[0])), nil
			}),
			fn("Paths.ext", 1, func(args ...any) (any, error) {
				return filepath.Ext(Text(args[0])), nil
			}),
		},
		fields: map[string]any{
			"separator":     string(os.PathSeparator),
			"listSeparator": string(os.PathListSeparator),
		},
	}
}

func texts(args []any) []string {
	out := make([]string, len(args))
	for i, v := range args {
		out[i] = Text(v)
	}

	return out
}

func pathExists(p string) bool {
	_, err := os.Stat(p)

	return err == nil
}

// pathsPrefix prepends items to the PATH-like list subject, removing
// duplicates.
func pathsPrefix(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// pathsPrefixIf is pathsPrefix keeping only the items accepted by predicate.
func pathsPrefixIf(
	subject string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}
