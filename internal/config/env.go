package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// applyDefaults fills every field carrying a `default` tag
func applyDefaults(config *Config) error {
	return walkTagged(reflect.ValueOf(config).Elem(), "default", func(field reflect.Value, name, value string) error {
		if err := setField(field, value); err != nil {
			return fmt.Errorf("invalid default for %s: %w", name, err)
		}
		return nil
	})
}

// applyEnv overrides every field whose `env` variable is set
func applyEnv(config *Config) error {
	return walkTagged(reflect.ValueOf(config).Elem(), "env", func(field reflect.Value, name, variable string) error {
		value, ok := os.LookupEnv(variable)
		if !ok {
			return nil
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("failed to set field %s from env var %s: %w", name, variable, err)
		}
		return nil
	})
}

// walkTagged calls fn for every leaf field of the section structs that has tag
func walkTagged(val reflect.Value, tag string, fn func(field reflect.Value, name, tagValue string) error) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := walkTagged(field, tag, fn); err != nil {
				return err
			}
			continue
		}

		tagValue, ok := fieldType.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if err := fn(field, fieldType.Name, tagValue); err != nil {
			return err
		}
	}
	return nil
}

// setField parses value into field according to the field kind
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer format: %w", err)
		}
		field.SetInt(intValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean format: %w", err)
		}
		field.SetBool(boolValue)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
