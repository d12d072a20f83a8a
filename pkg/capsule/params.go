package capsule

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Options holds the query parameters shared by list, get and search calls.
// Zero values are treated as absent.
type Options struct {
	Page    int
	PerPage int
	Embed   []string
	Since   string
	Query   string

	// Filters are passed through verbatim. Keys that collide with the
	// reserved parameters above are ignored.
	Filters map[string]any
}

var reservedParams = map[string]bool{
	"page":    true,
	"perPage": true,
	"embed":   true,
	"since":   true,
	"q":       true,
}

// IsReservedParam reports whether key is one of page, perPage, embed, since, q.
func IsReservedParam(key string) bool { return reservedParams[key] }

// Embed is a convenience for Options{Embed: ...}.
func Embed(names ...string) Options {
	return Options{Embed: names}
}

// Values builds the query string. Embed keeps caller order.
func (o Options) Values() url.Values {
	v := url.Values{}
	if o.Page != 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage != 0 {
		v.Set("perPage", strconv.Itoa(o.PerPage))
	}
	if len(o.Embed) > 0 {
		v.Set("embed", strings.Join(o.Embed, ","))
	}
	if o.Since != "" {
		v.Set("since", o.Since)
	}
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	for key, val := range o.Filters {
		if reservedParams[key] || val == nil {
			continue
		}
		v.Set(key, FormatParam(val))
	}
	return v
}

// FormatParam renders a filter value. JSON numbers arrive as float64;
// integral ones are printed without a fraction. Lists are comma joined and
// objects are sent as compact JSON.
func FormatParam(val any) string {
	switch x := val.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, FormatParam(p))
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return jsonParam(x)
	default:
		switch reflect.ValueOf(x).Kind() {
		case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Pointer:
			return jsonParam(x)
		}
		return fmt.Sprint(x)
	}
}

func jsonParam(val any) string {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprint(val)
	}
	return string(data)
}
