package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Loader loads configuration from a YAML file with environment overrides.
// Environment variables win over file values; variable names are built from
// the struct's yaml tags, upper-cased and joined with underscores under the
// loader's prefix (e.g. FIRESYNC_DATABASE_HOST).
type Loader struct {
	envPrefix string
}

// NewLoader creates a configuration loader with the given env prefix
func NewLoader(envPrefix string) *Loader {
	return &Loader{envPrefix: envPrefix}
}

// Load populates config from the file at path (optional) and the environment
func (l *Loader) Load(path string, config interface{}) error {
	if err := l.loadFile(path, config); err != nil {
		return err
	}
	if err := l.applyEnv(reflect.ValueOf(config).Elem(), ""); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// WriteExample writes the config out as YAML, for --generate-config
func (l *Loader) WriteExample(path string, config interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (l *Loader) loadFile(path string, config interface{}) error {
	if path == "" {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (l *Loader) applyEnv(value reflect.Value, prefix string) error {
	if !value.IsValid() || !value.CanSet() {
		return nil
	}

	switch value.Kind() {
	case reflect.Struct:
		structType := value.Type()
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			fieldType := structType.Field(i)
			if !field.CanSet() {
				continue
			}

			name := yamlName(fieldType)
			if name == "-" {
				continue
			}
			scoped := name
			if prefix != "" {
				scoped = prefix + "_" + name
			}

			if field.Kind() == reflect.Struct {
				if err := l.applyEnv(field, scoped); err != nil {
					return err
				}
				continue
			}
			if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
				if field.IsNil() {
					field.Set(reflect.New(field.Type().Elem()))
				}
				if err := l.applyEnv(field.Elem(), scoped); err != nil {
					return err
				}
				continue
			}

			if envValue := os.Getenv(l.envName(scoped)); envValue != "" {
				if err := setField(field, envValue); err != nil {
					return fmt.Errorf("field %s: %w", fieldType.Name, err)
				}
			}
		}

	case reflect.Ptr:
		if value.IsNil() {
			value.Set(reflect.New(value.Type().Elem()))
		}
		return l.applyEnv(value.Elem(), prefix)
	}

	return nil
}

func (l *Loader) envName(name string) string {
	name = strings.ToUpper(name)
	if l.envPrefix != "" {
		return l.envPrefix + "_" + name
	}
	return name
}

func yamlName(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value: %s", value)
		}
		field.SetBool(boolVal)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration value: %s", value)
			}
			field.SetInt(int64(duration))
			return nil
		}
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int value: %s", value)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		field.SetFloat(floatVal)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}

	return nil
}
