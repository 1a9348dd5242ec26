package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL     = "VIDEO_API_BASE_URL"
	EnvBearerToken = "VIDEO_API_BEARER_TOKEN"

	// EnvPrefix prefixes runtime overrides, e.g. VIDEOMCP_TRANSPORTPROTOCOL
	// or VIDEOMCP_STREAMABLEHTTPCONFIG_PORT.
	EnvPrefix = "VIDEOMCP"

	DefaultEnvFile = ".env"
)

// LoadEnvFile loads variables from a dotenv file without overriding the ones
// already set. A missing default file is not an error, a missing explicit one is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

// ApplyBackendEnv reads the video service connection from the environment.
// An env base URL wins over the config file.
func (b *BackendConfig) ApplyBackendEnv() {
	if baseURL, ok := os.LookupEnv(EnvBaseURL); ok && baseURL != "" {
		b.BaseURL = baseURL
	}

	b.BearerToken = os.Getenv(EnvBearerToken)
}

type RuntimeOverrider interface {
	ApplyOverrides(runtime *ServerRuntime) error
}

type envRuntimeOverrider struct {
	prefix string
}

// NewEnvRuntimeOverrider overrides runtime fields from VIDEOMCP_* variables.
// Nested field names are upper-cased and joined with "_".
func NewEnvRuntimeOverrider() RuntimeOverrider {
	return &envRuntimeOverrider{prefix: EnvPrefix}
}

func (e *envRuntimeOverrider) ApplyOverrides(runtime *ServerRuntime) error {
	if runtime == nil {
		return fmt.Errorf("cannot apply overrides to a nil runtime")
	}

	_, err := overrideStruct(reflect.ValueOf(runtime).Elem(), e.prefix)
	return err
}

// overrideStruct walks exported fields. Nil struct pointers are only
// allocated when a variable below them is set.
func overrideStruct(val reflect.Value, prefix string) (bool, error) {
	typ := val.Type()

	updated := false
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		key := envKey(prefix, fieldType.Name)

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			wasNil := field.IsNil()
			if wasNil {
				field.Set(reflect.New(field.Type().Elem()))
			}

			nested, err := overrideStruct(field.Elem(), key)
			if err != nil {
				return updated, err
			}

			if nested {
				updated = true
			} else if wasNil {
				field.Set(reflect.Zero(field.Type()))
			}
			continue
		}

		value, found := os.LookupEnv(key)
		if !found {
			continue
		}

		if err := setFromEnv(field, value); err != nil {
			return updated, fmt.Errorf("error setting field %s from env var %s: %w", fieldType.Name, key, err)
		}
		updated = true
	}

	return updated, nil
}

func setFromEnv(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}

		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %v", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(strings.Split(value, ",")))
	case reflect.Ptr:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setFromEnv(field.Elem(), value)
	case reflect.Map:
		if field.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("unsupported map key type: %v", field.Type().Key().Kind())
		}

		m := reflect.New(field.Type())
		if err := json.Unmarshal([]byte(value), m.Interface()); err != nil {
			return fmt.Errorf("failed to parse map value as JSON: %w", err)
		}
		field.Set(m.Elem())
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func envKey(prefix, name string) string {
	if prefix == "" {
		return strings.ToUpper(name)
	}

	return strings.ToUpper(prefix + "_" + name)
}
