package gosonar

import (
	"fmt"
	"reflect"
	"strings"
)

// validate walks a decoded model: fields tagged `sonar:"required"` are
// trimmed when they are strings and must hold a non zero value. Other
// strings, such as source code, are left untouched.
func validate(v interface{}) error {
	return walk(reflect.ValueOf(v), "")
}

func walk(v reflect.Value, path string) error {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return walk(v.Elem(), path)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := jsonName(field)
			if path != "" {
				name = path + "." + name
			}
			fv := v.Field(i)
			required := field.Tag.Get("sonar") == "required"
			if required && fv.Kind() == reflect.String && fv.CanSet() {
				fv.SetString(strings.TrimSpace(fv.String()))
			}
			if err := walk(fv, name); err != nil {
				return err
			}
			if required && fv.IsZero() {
				return fmt.Errorf("missing required field %q", name)
			}
		}
	}
	return nil
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
		return name
	}
	return field.Name
}
