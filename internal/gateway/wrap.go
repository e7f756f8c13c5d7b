package gateway

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotTable is returned by Wrap when its argument is not a pointer to a struct.
var ErrNotTable = errors.New("gateway: Wrap requires a non-nil pointer to a struct")

// Wrap replaces every non-nil exported func field of *table with a proxy that
// holds the call lock for the duration of the call. It returns the number of
// fields wrapped. Fields of other kinds and nil funcs are left untouched.
//
// Wrap is the binding-time step that puts every native entry point behind the
// lock. Wrapping the same table twice nests the lock, which is harmless but
// wasteful; callers wrap a table once, right after its symbols are resolved.
func (g *Gateway) Wrap(table any) (int, error) {
	v := reflect.ValueOf(table)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return 0, fmt.Errorf("%w: got %T", ErrNotTable, table)
	}
	v = v.Elem()
	t := v.Type()

	n := 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !field.IsExported() || fv.Kind() != reflect.Func || fv.IsNil() {
			continue
		}
		// Copy the func out first; fv is the field the proxy replaces.
		fv.Set(g.proxy(reflect.ValueOf(fv.Interface())))
		n++
	}
	g.log.Debug("wrapped native entry points", "table", t.Name(), "count", n)
	return n, nil
}

func (g *Gateway) proxy(fn reflect.Value) reflect.Value {
	return reflect.MakeFunc(fn.Type(), func(args []reflect.Value) []reflect.Value {
		g.mu.lock()
		defer g.mu.unlock()
		g.calls.Inc()
		if fn.Type().IsVariadic() {
			return fn.CallSlice(args)
		}
		return fn.Call(args)
	})
}
