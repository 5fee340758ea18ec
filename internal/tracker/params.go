package tracker

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/five82/margin/internal/calendar"
)

// Param is one query-string entry.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query parameters. Encoding keeps insertion
// order and skips nil values, so optional filters can be added
// unconditionally.
type Params []Param

// Add appends key=value and returns the extended list.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the non-nil entries as key=value pairs joined by '&'.
// url.Values is not used because it sorts keys.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		if isNil(param.Value) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatValue(param.Value)))
	}
	return b.String()
}

func withQuery(path string, params Params) string {
	query := params.Encode()
	if query == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func formatValue(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	v = rv.Interface()

	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// optionalYear maps the "no year" zero value to nil so Encode drops it.
func optionalYear(year int) any {
	if year <= 0 {
		return nil
	}
	return year
}

// optionalDate maps the zero date to nil so Encode drops it.
func optionalDate(d calendar.Date) any {
	if d.IsZero() {
		return nil
	}
	return d
}
