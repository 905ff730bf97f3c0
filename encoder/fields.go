package encoder

import (
	"reflect"
	"slices"
	"strings"
	"sync"
)

type field struct {
	name      string
	index     []int
	omitEmpty bool
	omitZero  bool
}

var fieldCache sync.Map // map[reflect.Type][]field

func (e *Encoder) encodeStruct(rv reflect.Value, depth int) (any, error) {
	fields := cachedFields(rv.Type())
	out := make(Object, 0, len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(rv, f.index)
		if !ok || !fv.CanInterface() {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if f.omitZero && fv.IsZero() {
			continue
		}
		item, err := e.encode(fv.Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Key: f.name, Value: item})
	}
	return out, nil
}

func cachedFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}
	fields := dominantFields(collectFields(t, nil))
	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]field)
}

// collectFields walks exported fields in declaration order, descending into
// exported embedded structs without a json name.
func collectFields(t reflect.Type, index []int) []field {
	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		idx := append(slices.Clone(index), i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && sf.IsExported() {
				fields = append(fields, collectFields(ft, idx)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{
			name:      name,
			index:     idx,
			omitEmpty: hasOption(opts, "omitempty"),
			omitZero:  hasOption(opts, "omitzero"),
		})
	}
	return fields
}

// dominantFields keeps the shallowest field for every name, in index order.
func dominantFields(fields []field) []field {
	best := make(map[string]int, len(fields))
	for i, f := range fields {
		j, seen := best[f.name]
		if !seen || len(f.index) < len(fields[j].index) {
			best[f.name] = i
		}
	}
	out := make([]field, 0, len(best))
	for i, f := range fields {
		if best[f.name] == i {
			out = append(out, f)
		}
	}
	return out
}

func hasOption(opts, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
