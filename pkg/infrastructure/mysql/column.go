package mysql

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// jsonList stores a slice in a JSON column. A nil slice is written as an empty array.
type jsonList[T any] []T

func (l jsonList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(data), nil
}

func (l *jsonList[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported json column type %T", src)
	}
	return errors.WithStack(json.Unmarshal(data, (*[]T)(l)))
}
