// Package statekey canonicalizes state descriptors into hashable keys
// which index sparse tabular value functions.
package statekey

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Separator joins the tokens of a Key
const Separator = "_"

// Key is the canonical form of a state descriptor. Keys are only ever
// compared for equality, never ordered by meaning.
type Key string

// Descriptor is an ordered tuple of state components produced by an
// environment on a single step. Components are scalars (ints, floats,
// bools, strings) or sequences of scalars. A Descriptor should not be
// modified after it is handed to an agent.
type Descriptor []interface{}

// Key returns the canonical Key of the Descriptor
func (d Descriptor) Key() Key {
	return Make(d...)
}

// Len returns the number of components in the Descriptor
func (d Descriptor) Len() int {
	return len(d)
}

// Int returns component i of the Descriptor as an int. Int panics if
// the component is not an integer.
func (d Descriptor) Int(i int) int {
	switch v := d[i].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	}
	panic(fmt.Sprintf("int: component %d is %T, not an integer", i, d[i]))
}

// Bool returns component i of the Descriptor as a bool. Bool panics if
// the component is not a bool.
func (d Descriptor) Bool(i int) bool {
	v, ok := d[i].(bool)
	if !ok {
		panic(fmt.Sprintf("bool: component %d is %T, not a bool", i, d[i]))
	}
	return v
}

func (d Descriptor) String() string {
	return string(d.Key())
}

// Make creates the Key of a sequence of components. Sequence
// components (slices, arrays and gonum vectors) are expanded in place
// one level deep before every token is stringified and joined with
// Separator, so that Make(1, []int{2, 3}) == Make(1, 2, 3).
func Make(components ...interface{}) Key {
	tokens := make([]string, 0, len(components))
	for _, c := range components {
		tokens = appendTokens(tokens, c)
	}
	return Key(strings.Join(tokens, Separator))
}

// appendTokens expands a single component into its tokens
func appendTokens(tokens []string, c interface{}) []string {
	switch v := c.(type) {
	case Descriptor:
		for _, elem := range v {
			tokens = append(tokens, token(elem))
		}
		return tokens

	case mat.Vector:
		for i := 0; i < v.Len(); i++ {
			tokens = append(tokens, token(v.AtVec(i)))
		}
		return tokens

	case string, []byte:
		return append(tokens, token(v))
	}

	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			tokens = append(tokens, token(rv.Index(i).Interface()))
		}
		return tokens
	}
	return append(tokens, token(c))
}

// token stringifies a single scalar
func token(c interface{}) string {
	switch v := c.(type) {
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(c)
}
