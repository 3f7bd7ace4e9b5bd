package env

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeFor[time.Duration]()

var ErrNotStructPointer = errors.New("env: expected a pointer to a struct")

// MarshalEnv renders the `env`-tagged fields of the struct c points to as
// KEY=value lines in field order. Zero values are skipped so the reader's
// defaults apply. Nested structs are flattened.
func MarshalEnv(c any) (string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return "", ErrNotStructPointer
	}

	var b strings.Builder
	if err := marshalStruct(&b, v.Elem()); err != nil {
		return "", err
	}
	return b.String(), nil
}

func marshalStruct(b *strings.Builder, v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		val := v.Field(i)
		tag := field.Tag.Get("env")

		if tag == "" && val.Kind() == reflect.Struct {
			if err := marshalStruct(b, val); err != nil {
				return err
			}
			continue
		}

		// "KEY,required,notEmpty" -> KEY
		key, _, _ := strings.Cut(tag, ",")
		if key == "" || val.IsZero() {
			continue
		}

		s, err := formatValue(val)
		if err != nil {
			return fmt.Errorf("env: field %s: %w", field.Name, err)
		}
		fmt.Fprintf(b, "%s=%s\n", key, quote(s))
	}
	return nil
}

func formatValue(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == durationType {
			return time.Duration(v.Int()).String(), nil
		}
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			s, err := formatValue(v.Index(i))
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported kind %s", v.Kind())
	}
}

// quote wraps values godotenv would otherwise split or truncate.
func quote(s string) string {
	if strings.ContainsAny(s, " \t\n\r#\"'\\=") {
		return strconv.Quote(s)
	}
	return s
}
