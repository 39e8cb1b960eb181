package util

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	conditionalRe = regexp.MustCompile(`(?s)\{#if (\w+)\}(.*?)\{/if\}`)
	placeholderRe = regexp.MustCompile(`\{(\w+)\}`)
)

// RenderTemplate expands a definition template against params.
//
// Conditional blocks `{#if name}...{/if}` are resolved first: the body is kept
// when params[name] is present and truthy, otherwise the whole block is
// removed. Blocks do not nest. Placeholders `{name}` are then replaced when
// name is a key of params (a nil value renders empty); unknown placeholders
// are left verbatim.
func RenderTemplate(text string, params map[string]any) string {
	if !strings.Contains(text, "{") { // fast path: no markers
		return text
	}

	text = conditionalRe.ReplaceAllStringFunc(text, func(block string) string {
		m := conditionalRe.FindStringSubmatch(block)
		if v, ok := params[m[1]]; ok && Truthy(v) {
			return m[2]
		}
		return ""
	})

	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		v, ok := params[name]
		if !ok {
			return token
		}
		return Stringify(v)
	})
}

// Truthy reports whether v counts as set: nil, false, zero numbers, empty
// strings and empty collections are falsy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// Stringify renders a parameter value for substitution. Lists are joined
// with ", ".
func Stringify(v any) string {
	if v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = Stringify(rv.Index(i).Interface())
		}
		return strings.Join(items, ", ")
	}

	return fmt.Sprintf("%v", v)
}
