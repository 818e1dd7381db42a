package models

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
)

// Optional хранит значение поля, которое может отсутствовать.
// Отсутствие значения отличается от нулевого значения типа:
// None[int]() и Some(0) — разные состояния.
//
// В JSON отсутствующее значение кодируется как null, в базе данных — как NULL.
type Optional[T any] struct {
	value T
	set   bool
}

// Some возвращает заполненное значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None возвращает пустое значение.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get возвращает значение и признак его наличия.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet сообщает, задано ли значение.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse возвращает значение или def, если оно не задано.
func (o Optional[T]) OrElse(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// MarshalJSON реализует json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON реализует json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Scan реализует sql.Scanner.
func (o *Optional[T]) Scan(src any) error {
	var n sql.Null[T]
	if err := n.Scan(src); err != nil {
		return err
	}
	o.value, o.set = n.V, n.Valid
	return nil
}

// Value реализует driver.Valuer.
func (o Optional[T]) Value() (driver.Value, error) {
	if !o.set {
		return nil, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(o.value)
}
