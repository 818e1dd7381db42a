// Package request содержит общие помощники разбора HTTP-запросов.
package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/Naivezz/FitPoint-sub000/internal/lib/apperr"
)

// DateLayout — формат дат в параметрах запроса.
const DateLayout = "2006-01-02"

// ErrBadBody возвращается, если тело запроса не удалось разобрать как JSON.
var ErrBadBody = errors.New("invalid request body")

// IDParam читает положительный целый параметр пути name.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.ErrInvalidArgument, "invalid %s parameter", name)
	}
	return id, nil
}

// DecodeJSON декодирует тело запроса в dst.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrBadBody
	}
	return nil
}

// DateQuery читает дату из query-параметра name. Пустой параметр даёт def.
func DateQuery(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.ErrInvalidArgument, "invalid %s parameter, expected YYYY-MM-DD", name)
	}
	return d, nil
}

// Int64Query читает необязательный положительный целый query-параметр.
// Отсутствующий параметр даёт 0.
func Int64Query(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.Newf(apperr.ErrInvalidArgument, "invalid %s parameter", name)
	}
	return v, nil
}
