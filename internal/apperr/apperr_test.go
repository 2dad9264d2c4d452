package apperr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("Car")))
	assert.Equal(t, KindDuplicateKey, KindOf(Duplicate("taken")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestStatusMapping(t *testing.T) {
	cases := map[int]*Error{
		http.StatusUnauthorized:        NoSession(),
		http.StatusNotFound:            NotFound("Car"),
		http.StatusBadRequest:          Validation("bad"),
		http.StatusConflict:            Duplicate("taken"),
		http.StatusInternalServerError: Storage(errors.New("boom")),
	}
	for status, err := range cases {
		assert.Equal(t, status, err.HTTPStatus, err.Kind)
	}

	assert.Equal(t, http.StatusUnauthorized, InvalidSession(nil).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, IdentityGone().HTTPStatus)
}

func TestWriteMasksUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("sql: connection refused to db-internal:5432"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db-internal")
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestWriteKeepsClientSafeMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("Car"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Car not found")
}
