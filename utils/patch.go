package utils

import (
	"reflect"
	"strconv"
	"strings"
)

// UpdatesFromPtrDTO collects the set pointer fields of a partial-update DTO into a gorm
// Updates map. The key is the json name, or renames[name] when present.
// Fields tagged `patch:"-"` are left to the caller, e.g. values that must be converted first.
func UpdatesFromPtrDTO(dto any, renames map[string]string) map[string]any {
	res := make(map[string]any)
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return res
	}
	s := v.Elem()
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() || sf.Tag.Get("patch") == "-" {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if alt := renames[name]; alt != "" {
			name = alt
		}
		res[name] = fv.Elem().Interface()
	}
	return res
}

// ParseIntDefault parses a non-negative query value, falling back to def.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Page reads limit/offset query values, capping the limit at MaxPageSize.
func Page(limit, offset string) (int, int) {
	l := ParseIntDefault(limit, DefaultPageSize)
	if l == 0 || l > MaxPageSize {
		l = MaxPageSize
	}
	return l, ParseIntDefault(offset, 0)
}
