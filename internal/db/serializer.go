package db

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm/schema"

	"github.com/balkashynov/studio/internal/timefmt"
)

func init() {
	schema.RegisterSerializer("minute", minuteSerializer{})
}

// minuteSerializer stores time.Time fields as canonical minute-resolution text.
type minuteSerializer struct{}

func (minuteSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var t time.Time
	switch v := dbValue.(type) {
	case nil:
		return nil
	case string:
		parsed, err := timefmt.Parse(v)
		if err != nil {
			return fmt.Errorf("column %s: %w", field.DBName, err)
		}
		t = parsed
	case []byte:
		parsed, err := timefmt.Parse(string(v))
		if err != nil {
			return fmt.Errorf("column %s: %w", field.DBName, err)
		}
		t = parsed
	case time.Time:
		// the driver decodes columns declared DATETIME itself
		t = timefmt.Truncate(timefmt.Naive(v))
	default:
		return fmt.Errorf("column %s: unsupported timestamp type %T", field.DBName, dbValue)
	}
	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(t))
	return nil
}

func (minuteSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	t, ok := fieldValue.(time.Time)
	if !ok {
		return nil, fmt.Errorf("column %s: expected time.Time, got %T", field.DBName, fieldValue)
	}
	return timefmt.Format(timefmt.Truncate(t)), nil
}
