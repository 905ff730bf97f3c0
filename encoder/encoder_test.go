package encoder

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fake struct {
	data int
}

type jsonItem struct{}

func (jsonItem) AsJSON() any { return "<as_json>" }

type forJSONItem struct{}

func (forJSONItem) ForJSON() any { return "<for_json>" }

type bothItem struct{}

func (bothItem) AsJSON() any  { return "<as_json>" }
func (bothItem) ForJSON() any { return "<for_json>" }

type pointerItem struct{ name string }

func (p *pointerItem) AsJSON() any { return map[string]any{"name": p.name} }

type tagList []string

func (t tagList) AsJSON() any { return strings.Join(t, ",") }

type labelMap map[string]int

func (labelMap) ForJSON() any { return "<labels>" }

func newEncoder(opts Options) *Encoder {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	return New(opts)
}

func marshalString(t *testing.T, e *Encoder, v any) string {
	t.Helper()
	data, err := e.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestEncodePrimitivesUnchanged(t *testing.T) {
	e := newEncoder(Options{})
	values := []any{
		true,
		42,
		int8(-3),
		uint64(7),
		2.5,
		"text",
		[]int{1, 2, 3},
		[]byte("raw"),
		[2]string{"a", "b"},
		map[string]int{"a": 1},
		map[string]any{"nested": []any{"x", 1.5, nil}},
		[]any{"x", map[string]any{"k": false}},
	}
	for _, v := range values {
		out, err := e.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}

	out, err := e.Encode(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func timeValues() map[string]any {
	gmt1 := time.FixedZone("GMT1", int(time.Hour/time.Second))
	return map[string]any{
		"tm1": civil.Time{Hour: 12, Minute: 34, Second: 56},
		"tm2": civil.Time{Hour: 1, Minute: 2, Second: 3, Nanosecond: 175000},
		"dt":  civil.Date{Year: 2015, Month: time.December, Day: 7},
		"dtm": time.Date(2014, time.May, 12, 17, 24, 10, 0, gmt1),
	}
}

func TestEncodeDateTimeDefaultFormat(t *testing.T) {
	out, err := newEncoder(Options{}).Encode(timeValues())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"tm1": "12:34:56",
		"tm2": "01:02:03.000175",
		"dt":  "2015-12-07",
		"dtm": "2014-05-12T17:24:10+01:00",
	}, out)
}

func TestEncodeDateTimeRoundTrips(t *testing.T) {
	e := newEncoder(Options{})
	values := []time.Time{
		time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC),
		time.Date(2020, time.January, 2, 3, 4, 5, 123456000, time.FixedZone("", -5*3600)),
	}
	for _, v := range values {
		out, err := e.Encode(v)
		require.NoError(t, err)

		parsed, err := time.Parse(time.RFC3339Nano, out.(string))
		require.NoError(t, err)
		assert.True(t, v.Equal(parsed), "expected %s to round trip, got %s", v, parsed)
	}

	out, err := e.Encode(values[0])
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02T03:04:05+00:00", out)
}

func TestEncodeDateTimeCustomFormat(t *testing.T) {
	e := newEncoder(Options{
		TimeFormat:     "04:05:15",
		DateFormat:     "2006.01.02",
		DateTimeFormat: "2006/01/02 15-04-05",
	})

	out, err := e.Encode(timeValues())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"tm1": "34:56:12",
		"tm2": "02:03:01",
		"dt":  "2015.12.07",
		"dtm": "2014/05/12 17-24-10",
	}, out)
}

func TestEncodeDateTimeVariants(t *testing.T) {
	e := newEncoder(Options{})
	instant := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	cases := map[string]struct {
		value any
		want  string
	}{
		"mongo datetime":  {primitive.NewDateTimeFromTime(instant), "2020-01-02T03:04:05+00:00"},
		"mongo timestamp": {primitive.Timestamp{T: 1577934245}, "2020-01-02T03:04:05+00:00"},
		"naive datetime": {
			civil.DateTime{Date: civil.Date{Year: 2020, Month: time.January, Day: 2}, Time: civil.Time{Hour: 3, Minute: 4, Second: 5}},
			"2020-01-02T03:04:05",
		},
		"pointer to time": {&instant, "2020-01-02T03:04:05+00:00"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := e.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEncodeLazyString(t *testing.T) {
	calls := 0
	lazy := LazyString(func() string {
		calls++
		return "Привет"
	})

	out, err := newEncoder(Options{}).Encode(map[string]any{"text": lazy})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "Привет"}, out)
	assert.Equal(t, 1, calls)
}

func TestEncodeIterables(t *testing.T) {
	e := newEncoder(Options{})

	t.Run("set", func(t *testing.T) {
		out, err := e.Encode(map[int]struct{}{3: {}, 1: {}, 2: {}})
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, out)
	})

	t.Run("generator", func(t *testing.T) {
		gen := func(yield func(int) bool) {
			for _, x := range []int{3, 2, 42} {
				if !yield(x) {
					return
				}
			}
		}
		out, err := e.Encode(gen)
		require.NoError(t, err)
		assert.Equal(t, []any{3, 2, 42}, out)
	})

	t.Run("iterator", func(t *testing.T) {
		out, err := e.Encode(slices.Values([]string{"a", "b", "c"}))
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c"}, out)
	})

	t.Run("channel", func(t *testing.T) {
		ch := make(chan int, 3)
		ch <- 1
		ch <- 2
		ch <- 3
		close(ch)

		out, err := e.Encode(ch)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 3}, out)
	})

	t.Run("send only channel", func(t *testing.T) {
		_, err := e.Encode(make(chan<- int))
		assert.ErrorIs(t, err, ErrNotSerializable)
	})

	t.Run("elements are resolved", func(t *testing.T) {
		out, err := e.Encode(slices.Values([]civil.Date{{Year: 2015, Month: time.December, Day: 7}}))
		require.NoError(t, err)
		assert.Equal(t, []any{"2015-12-07"}, out)
	})
}

func TestEncodeHooks(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func(v any) (any, bool) {
		if f, ok := v.(fake); ok {
			return f.data, true
		}
		return nil, false
	})
	e := New(Options{Registry: reg})

	out, err := e.Encode(map[string]any{
		"fake": fake{data: 42},
		"tm":   civil.Time{Hour: 12, Minute: 34, Second: 56},
		"txt":  "txt",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fake": 42, "tm": "12:34:56", "txt": "txt"}, out)
}

func TestEncodeHookOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func(v any) (any, bool) {
		if _, ok := v.(fake); ok {
			return "first", true
		}
		return nil, false
	})
	reg.Register(func(v any) (any, bool) { return "second", true })
	reg.Register(nil)

	assert.Equal(t, 2, reg.Len())

	e := New(Options{Registry: reg})
	out, err := e.Encode([]any{fake{}, struct{ A chan int }{}})
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second"}, out)
}

func TestEncodeHookSubstituteIsResolved(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func(v any) (any, bool) {
		if _, ok := v.(fake); ok {
			return civil.Date{Year: 2015, Month: time.December, Day: 7}, true
		}
		return nil, false
	})

	out, err := New(Options{Registry: reg}).Encode(fake{})
	require.NoError(t, err)
	assert.Equal(t, "2015-12-07", out)
}

func TestEncodeHookRecursionIsBounded(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func(v any) (any, bool) {
		if f, ok := v.(fake); ok {
			return f, true
		}
		return nil, false
	})

	_, err := New(Options{Registry: reg}).Encode(fake{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSerializable)
	assert.Contains(t, err.Error(), "nesting exceeds")
}

func TestEncodeCapabilities(t *testing.T) {
	enabled := newEncoder(Options{UseEncodeMethods: true})

	cases := map[string]struct {
		value any
		want  any
	}{
		"primary":          {jsonItem{}, "<as_json>"},
		"secondary":        {forJSONItem{}, "<for_json>"},
		"primary wins":     {bothItem{}, "<as_json>"},
		"pointer receiver": {&pointerItem{name: "Sam"}, map[string]any{"name": "Sam"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := enabled.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEncodeCapabilitiesDisabled(t *testing.T) {
	disabled := newEncoder(Options{})

	for _, v := range []any{jsonItem{}, forJSONItem{}, bothItem{}} {
		_, err := disabled.Encode(map[string]any{"item": v})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotSerializable)

		var unsupportedErr *UnsupportedValueError
		require.True(t, errors.As(err, &unsupportedErr))
		assert.Contains(t, unsupportedErr.Reason, "encode methods are disabled")
	}
}

func TestEncodeCapabilityContainers(t *testing.T) {
	enabled := newEncoder(Options{UseEncodeMethods: true})

	out, err := enabled.Encode(tagList{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a,b", out)

	out, err = enabled.Encode(labelMap{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, "<labels>", out)

	disabled := newEncoder(Options{})
	for _, v := range []any{tagList{"a"}, labelMap{"x": 1}} {
		_, err := disabled.Encode(v)
		assert.ErrorIs(t, err, ErrNotSerializable)
	}

	out, err = disabled.Encode([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestEncodeHooksBeforeCapabilities(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func(v any) (any, bool) {
		if _, ok := v.(bothItem); ok {
			return "<hook>", true
		}
		return nil, false
	})

	out, err := New(Options{Registry: reg, UseEncodeMethods: true}).Encode(bothItem{})
	require.NoError(t, err)
	assert.Equal(t, "<hook>", out)
}

func TestEncodeNotSerializable(t *testing.T) {
	e := newEncoder(Options{})

	cases := map[string]any{
		"complex":   complex(1, 2),
		"func":      func() {},
		"map key":   map[[2]int]string{{1, 2}: "x"},
		"in struct": struct{ C complex64 }{},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.Encode(map[string]any{"fake": v})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotSerializable)
		})
	}

	_, err := e.Encode(complex(1, 2))
	assert.EqualError(t, err, "encoder: object of type complex128 is not JSON serializable")
}

func TestEncodeStructs(t *testing.T) {
	type Base struct {
		ID      int `json:"id"`
		Created civil.Date
	}
	type user struct {
		Base
		Name     string    `json:"name"`
		Nick     string    `json:"nick,omitempty"`
		Secret   string    `json:"-"`
		Tags     []string  `json:"tags,omitempty"`
		Score    *float64  `json:"score"`
		Zone     time.Time `json:"zone,omitzero"`
		internal int
	}

	e := newEncoder(Options{})
	u := user{
		Base:     Base{ID: 7, Created: civil.Date{Year: 2015, Month: time.December, Day: 7}},
		Name:     "Sam",
		Secret:   "hidden",
		internal: 3,
	}

	assert.Equal(t, `{"id":7,"Created":"2015-12-07","name":"Sam","score":null}`, marshalString(t, e, u))
	assert.Equal(t, `{"id":7,"Created":"2015-12-07","name":"Sam","score":null}`, marshalString(t, e, &u))

	out, err := e.Encode(u)
	require.NoError(t, err)
	obj, ok := out.(Object)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "Created", "name", "score"}, obj.Keys())
	name, ok := obj.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Sam", name)
}

func TestEncodeShallowFieldWins(t *testing.T) {
	type Inner struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	type outer struct {
		Inner
		Name string `json:"name"`
	}

	e := newEncoder(Options{})
	got := marshalString(t, e, outer{Inner: Inner{Name: "inner", Kind: "k"}, Name: "outer"})
	assert.Equal(t, `{"kind":"k","name":"outer"}`, got)
}

func TestEncodeBSONDocument(t *testing.T) {
	e := newEncoder(Options{})
	instant := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
	doc := bson.D{
		{Key: "z", Value: 1},
		{Key: "when", Value: primitive.NewDateTimeFromTime(instant)},
		{Key: "a", Value: bson.A{"x", bson.M{"k": true}}},
	}

	got := marshalString(t, e, doc)
	assert.Equal(t, `{"z":1,"when":"2020-01-02T03:04:05+00:00","a":["x",{"k":true}]}`, got)
}

func TestEncodeObjectID(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("5f1b2c3d4e5f6a7b8c9d0e1f")
	require.NoError(t, err)

	got := marshalString(t, newEncoder(Options{}), map[string]any{"id": id})
	assert.Equal(t, `{"id":"5f1b2c3d4e5f6a7b8c9d0e1f"}`, got)
}

func TestDefaultRegistry(t *testing.T) {
	before := DefaultRegistry().Len()
	type marker struct{}
	Register(func(v any) (any, bool) {
		if _, ok := v.(marker); ok {
			return "marker", true
		}
		return nil, false
	})
	assert.Equal(t, before+1, DefaultRegistry().Len())

	out, err := New(Options{}).Encode(marker{})
	require.NoError(t, err)
	assert.Equal(t, "marker", out)
}
