package main

import (
	"errors"
	"net/http"
	"time"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/lib/validator"
	"cinefinder/proj/internal/services/lists"

	"github.com/google/uuid"
)

type createListRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	IsPublic    bool   `json:"isPublic"`
}

type updateListRequest struct {
	ID          *uuid.UUID `json:"id"`
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool      `json:"isPublic"`
}

func (app *Application) handleListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lists.ErrListNotFound),
		errors.Is(err, lists.ErrMovieNotFound),
		errors.Is(err, lists.ErrMovieNotInList):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, lists.ErrMovieAlreadyInList):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, lists.ErrNotOwner):
		app.Http.Forbidden(w, r, err.Error())
	case errors.Is(err, lists.ErrOwnerNotFound):
		app.Http.UnprocessableEntity(w, r, map[string]string{"ownerId": "unknown user"})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getList(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	user := app.contextUser(r)
	list, err := app.services.Lists.GetDetailed(r.Context(), user.ID, id)
	if err != nil {
		app.handleListError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"list": list}, "")
}

func (app *Application) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	list, err := app.services.Lists.Create(r.Context(), user.ID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		app.handleListError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/lists/"+list.ID.String())
	app.Http.Created(w, r, envelop{"list": list}, "List successfully created")
}

func (app *Application) updateList(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateListRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if req.ID != nil && *req.ID != id {
		app.Http.BadRequest(w, r, "body id does not match the URL")
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	list, err := app.services.Lists.Update(r.Context(), user.ID, id, req.Name, req.Description, req.IsPublic)
	if err != nil {
		app.handleListError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"list": list}, "List successfully updated")
}

func (app *Application) deleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	user := app.contextUser(r)
	if err := app.services.Lists.Delete(r.Context(), user.ID, id); err != nil {
		app.handleListError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) addMovieToList(w http.ResponseWriter, r *http.Request) {
	listID, ok := app.extractUUIDParam(w, r, "listId")
	if !ok {
		return
	}
	movieID, ok := app.extractUUIDParam(w, r, "movieId")
	if !ok {
		return
	}
	user := app.contextUser(r)
	position, err := app.services.Lists.AddMovie(r.Context(), user.ID, listID, movieID)
	if err != nil {
		app.handleListError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"position": position}, "Movie successfully added to the list")
}

func (app *Application) removeMovieFromList(w http.ResponseWriter, r *http.Request) {
	listID, ok := app.extractUUIDParam(w, r, "listId")
	if !ok {
		return
	}
	movieID, ok := app.extractUUIDParam(w, r, "movieId")
	if !ok {
		return
	}
	user := app.contextUser(r)
	if err := app.services.Lists.RemoveMovie(r.Context(), user.ID, listID, movieID); err != nil {
		app.handleListError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

type listSearchQuery struct {
	paginationQuery
	OwnerID  *uuid.UUID `schema:"ownerId"`
	IsPublic *bool      `schema:"isPublic"`
	Name     string     `schema:"name"`
	From     *time.Time `schema:"from"`
	To       *time.Time `schema:"to"`
}

func (app *Application) searchLists(w http.ResponseWriter, r *http.Request) {
	var q listSearchQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	lf := filters.ListFilters{
		OwnerID:  q.OwnerID,
		IsPublic: q.IsPublic,
		Name:     q.Name,
		From:     q.From,
		To:       q.To,
	}
	found, meta, err := app.services.Lists.Search(r.Context(), lf, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, list := range found {
		items[i] = resource{Item: list, Links: selfLink("lists", list.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) getPublicLists(w http.ResponseWriter, r *http.Request) {
	var q paginationQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	found, meta, err := app.services.Lists.Public(r.Context(), q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, list := range found {
		items[i] = resource{Item: list, Links: selfLink("lists", list.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) getUserLists(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var q paginationQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	user := app.contextUser(r)
	found, meta, err := app.services.Lists.ByUser(r.Context(), user.ID, ownerID, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, list := range found {
		items[i] = resource{Item: list, Links: selfLink("lists", list.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}
