// Package rawjson decodes loosely shaped JSON datasets. Field lookups coerce
// scalars instead of failing, so a malformed record degrades to empty fields.
package rawjson

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Object is one JSON object record. Keys passed to its accessors are plain
// field names, not gjson paths.
type Object struct {
	r gjson.Result
}

// wrapperKeys are checked, in order, when a file holds a single object that
// wraps the record array, e.g. {"terms": [...]}.
var wrapperKeys = []string{"items", "rows", "records", "data", "terms", "words", "nodes"}

// ReadFile reads path and decodes it with Decode.
func ReadFile(path string) ([]Object, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read file %s: %w", path, err)
	}
	objs, skipped := Decode(data)
	return objs, skipped, nil
}

// Parse returns data as an Object if it is a valid JSON object.
func Parse(data []byte) (Object, bool) {
	if !gjson.ValidBytes(data) {
		return Object{}, false
	}
	return ObjectOf(gjson.ParseBytes(data))
}

// ObjectOf wraps r if it is a JSON object.
func ObjectOf(r gjson.Result) (Object, bool) {
	if !r.IsObject() {
		return Object{}, false
	}
	return Object{r: r}, true
}

// Decode accepts a JSON array of objects, a single object wrapping such an
// array, or JSONL. Elements that are not objects and JSONL lines that fail to
// parse are skipped and counted; Decode never fails.
func Decode(data []byte) ([]Object, int) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0
	}

	if gjson.ValidBytes(data) {
		root := gjson.ParseBytes(data)
		switch {
		case root.IsArray():
			return objects(root)
		case root.IsObject():
			if elems, ok := wrapped(root); ok {
				return objects(elems)
			}
			return []Object{{r: root}}, 0
		}
	}

	return decodeLines(data)
}

func wrapped(root gjson.Result) (gjson.Result, bool) {
	for _, key := range wrapperKeys {
		if v := root.Get(key); v.IsArray() {
			return v, true
		}
	}
	var found gjson.Result
	fields, arrays := 0, 0
	root.ForEach(func(_, v gjson.Result) bool {
		fields++
		if v.IsArray() {
			found = v
			arrays++
		}
		return true
	})
	if arrays == 1 && fields == 1 {
		return found, true
	}
	return gjson.Result{}, false
}

func objects(arr gjson.Result) ([]Object, int) {
	var out []Object
	skipped := 0
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, Object{r: v})
		} else {
			skipped++
		}
		return true
	})
	return out, skipped
}

func decodeLines(data []byte) ([]Object, int) {
	var out []Object
	skipped := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		obj, ok := Parse(line)
		if !ok {
			skipped++
			continue
		}
		out = append(out, obj)
	}
	return out, skipped
}

// String returns the first present key coerced to a string. Strings are
// returned as-is, numbers and booleans as their literal text; null, arrays
// and objects yield "".
func (o Object) String(keys ...string) string {
	for _, key := range keys {
		if s, ok := Scalar(o.r.Get(key)); ok {
			return s
		}
	}
	return ""
}

// Strings returns the first present key as a list of strings. A scalar
// value becomes a one-element list; non-scalar list elements are dropped.
func (o Object) Strings(keys ...string) []string {
	for _, key := range keys {
		v := o.r.Get(key)
		if !v.Exists() {
			continue
		}
		if v.IsArray() {
			var out []string
			v.ForEach(func(_, elem gjson.Result) bool {
				if s, ok := Scalar(elem); ok && s != "" {
					out = append(out, s)
				}
				return true
			})
			return out
		}
		if s, ok := Scalar(v); ok && s != "" {
			return []string{s}
		}
	}
	return nil
}

// Float returns the first present key as a number. Numeric strings are
// accepted; anything else reports false.
func (o Object) Float(keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := Number(o.r.Get(key)); ok {
			return f, true
		}
	}
	return 0, false
}

// List returns the elements of the first key holding an array.
func (o Object) List(keys ...string) ([]gjson.Result, bool) {
	for _, key := range keys {
		if v := o.r.Get(key); v.IsArray() {
			return v.Array(), true
		}
	}
	return nil, false
}

// Objects returns the object elements of the first key holding an array.
func (o Object) Objects(keys ...string) []Object {
	elems, ok := o.List(keys...)
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(elems))
	for _, e := range elems {
		if obj, ok := ObjectOf(e); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Scalar coerces a single JSON value to a string the way Object.String does.
func Scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return v.Str, true
	case gjson.Number:
		return v.Raw, true
	case gjson.True:
		return "true", true
	case gjson.False:
		return "false", true
	default:
		return "", false
	}
}

// Number coerces a JSON number or numeric string.
func Number(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
