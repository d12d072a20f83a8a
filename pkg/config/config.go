// Package config loads YAML configuration files and applies environment
// variable overrides declared with `env:"NAME"` struct tags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads the YAML file at path into out, expanding ${VAR} references,
// then applies environment overrides.
func Load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), out); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return ApplyEnv(out)
}

// LoadOrDefault is Load, except that a missing file keeps the values already
// in out. Environment overrides apply either way.
func LoadOrDefault(path string, out any) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ApplyEnv(out)
	}
	return Load(path, out)
}

// ApplyEnv sets tagged fields of the struct pointed to by v from the
// environment. Nested structs are walked; pointers are not.
func ApplyEnv(v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: want pointer to struct, got %T", v)
	}
	return applyEnv(val.Elem())
}

func applyEnv(val reflect.Value) error {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := val.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := applyEnv(fieldVal); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		envVal, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := setField(fieldVal, envVal); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}

func setField(v reflect.Value, s string) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		v.SetBool(strings.EqualFold(s, "true") || s == "1")
	default:
		return fmt.Errorf("unsupported field kind %s", v.Kind())
	}
	return nil
}
