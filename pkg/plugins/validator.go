package plugins

import (
	"fmt"
	"reflect"
)

// DefaultExport is the conventional default-export slot
const DefaultExport = "default"

// Named is satisfied by plugin implementations that report their own name
type Named interface {
	Name() string
}

// ConventionExportName returns the export slot named after the identifier's
// last path segment, e.g. "@acme/foo" yields "fooPlugin".
func ConventionExportName(identifier string) string {
	return LastSegment(identifier) + "Plugin"
}

// ExtractPlugin picks the plugin object out of a loaded module. A non-nil
// default export is the candidate; failing that, a non-nil convention-named
// export; failing that, the module itself. Only the chosen candidate is
// shape-checked, so a present but malformed default rejects the module.
func ExtractPlugin(module Module, identifier string) (any, bool) {
	if module == nil {
		return nil, false
	}

	candidate := pluginCandidate(module, identifier)
	if !IsPluginShape(candidate) {
		return nil, false
	}
	return candidate, true
}

func pluginCandidate(module Module, identifier string) any {
	if v := module[DefaultExport]; v != nil {
		return v
	}
	if v := module[ConventionExportName(identifier)]; v != nil {
		return v
	}
	return module
}

// IsPluginShape reports whether v is a non-nil keyed aggregate with a truthy
// name member, or implements Named with a non-empty result.
func IsPluginShape(v any) bool {
	return PluginName(v) != ""
}

// PluginName returns the name carried by a plugin-shaped value, or "" when v
// is not plugin-shaped.
func PluginName(v any) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	for {
		if isNilValue(rv) {
			return ""
		}
		if rv.CanInterface() {
			if n, ok := rv.Interface().(Named); ok {
				return n.Name()
			}
		}
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			break
		}
		rv = rv.Elem()
	}

	var member reflect.Value
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return ""
		}
		member = rv.MapIndex(reflect.ValueOf("name").Convert(rv.Type().Key()))
	case reflect.Struct:
		member = rv.FieldByName("Name")
	default:
		return ""
	}

	return truthyName(member)
}

// truthyName renders a truthy name member as a string
func truthyName(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.IsZero() {
		return ""
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return "true"
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.Type().String()
	}
	if v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return v.Type().String()
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
