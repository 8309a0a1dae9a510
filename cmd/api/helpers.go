package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"cinefinder/proj/internal/domain/filters"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (app *Application) extractUUIDParam(w http.ResponseWriter, r *http.Request, name string) (id uuid.UUID, extracted bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s, must be a valid UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}

// decodeQuery fills dst from the request's query string. Unknown keys are
// ignored.
func (app *Application) decodeQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "invalid query parameters: "+err.Error())
		return false
	}
	return true
}

// paginationQuery carries the query params shared by every search endpoint.
// Sort accepts a field name, with a leading '-' for descending order.
type paginationQuery struct {
	Page     int    `schema:"page"`
	PageSize int    `schema:"pageSize"`
	Sort     string `schema:"sort"`
}

func (q paginationQuery) filters() filters.Filters {
	sort := strings.TrimSpace(q.Sort)
	desc := strings.HasPrefix(sort, "-")
	return filters.New(q.Page, q.PageSize, strings.TrimPrefix(sort, "-"), desc)
}

// pageURL rebuilds the current request URL with another page number, keeping
// the rest of the query intact.
func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func paginationLinks(r *http.Request, meta filters.Metadata) map[string]string {
	lastPage := meta.TotalPages
	if lastPage < 1 {
		lastPage = 1
	}
	links := map[string]string{
		"firstPage": pageURL(r, 1),
		"lastPage":  pageURL(r, lastPage),
	}
	if meta.HasPrevious() {
		links["previousPage"] = pageURL(r, meta.CurrentPage-1)
	}
	if meta.HasNext() {
		links["nextPage"] = pageURL(r, meta.CurrentPage+1)
	}
	return links
}

// resource wraps a search result item with its navigation links.
type resource struct {
	Item  any               `json:"item"`
	Links map[string]string `json:"links"`
}

func selfLink(collection string, id uuid.UUID) map[string]string {
	return map[string]string{"self": "/api/v1/" + collection + "/" + id.String()}
}

// paginated assembles the standard search response body.
func paginated(r *http.Request, items []resource, meta filters.Metadata) envelop {
	return envelop{
		"items":    items,
		"metadata": meta,
		"links":    paginationLinks(r, meta),
	}
}
