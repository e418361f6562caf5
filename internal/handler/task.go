package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/model"
	"github.com/BuzzLyutic/todo-tasks/internal/service"
	"github.com/BuzzLyutic/todo-tasks/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	locale  string
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger, locale string) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		locale:  locale,
	}
}

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
}

// updateRequest keeps dueDate raw so that a missing key (keep), null (clear)
// and a date string (set) can be told apart.
type updateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    *string         `json:"priority"`
	DueDate     json.RawMessage `json:"dueDate"`
	Tags        *[]string       `json:"tags"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	in, err := req.toNewTask()
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task := h.service.Add(r.Context(), in)
	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.service.Get(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, ok := model.ParseFilter(q.Get("status"))
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "status must be all, pending or completed")
		return
	}
	sortBy, ok := model.ParseSortKey(q.Get("sort"))
	if !ok {
		respond.Error(w, r, http.StatusBadRequest, "sort must be createdAt, updatedAt, title or priority")
		return
	}

	tasks := service.View(h.service.Tasks(), model.ViewOptions{
		Filter: filter,
		SortBy: sortBy,
		Query:  q.Get("q"),
		Locale: h.locale,
	})
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	upd, err := req.toUpdate()
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, ok := h.service.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	task, ok := h.service.Toggle(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.service.Delete(r.Context(), chi.URLParam(r, "id")) {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}
	respond.NoContent(w)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.Stats())
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (req createRequest) toNewTask() (model.NewTask, error) {
	title, err := model.ValidateTitle(req.Title)
	if err != nil {
		return model.NewTask{}, err
	}
	in := model.NewTask{
		Title:       title,
		Description: req.Description,
		Tags:        model.CleanTags(req.Tags),
	}
	if req.Priority != "" {
		p, ok := model.ParsePriority(req.Priority)
		if !ok {
			return model.NewTask{}, model.ErrInvalidPriority
		}
		in.Priority = p
	}
	if req.DueDate != "" {
		due, err := model.ParseDate(req.DueDate)
		if err != nil {
			return model.NewTask{}, err
		}
		in.DueDate = &due
	}
	return in, nil
}

func (req updateRequest) toUpdate() (model.TaskUpdate, error) {
	title, err := model.ValidateTitle(req.Title)
	if err != nil {
		return model.TaskUpdate{}, err
	}
	upd := model.TaskUpdate{
		Title:       title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p, ok := model.ParsePriority(*req.Priority)
		if !ok {
			return model.TaskUpdate{}, model.ErrInvalidPriority
		}
		upd.Priority = model.SetTo(p)
	}
	if req.Tags != nil {
		upd.Tags = model.SetTo(model.CleanTags(*req.Tags))
	}

	switch string(req.DueDate) {
	case "":
	case "null":
		upd.DueDate = model.Cleared[time.Time]()
	default:
		var s string
		if err := json.Unmarshal(req.DueDate, &s); err != nil {
			return model.TaskUpdate{}, model.ErrInvalidDate
		}
		if s == "" {
			upd.DueDate = model.Cleared[time.Time]()
			break
		}
		due, err := model.ParseDate(s)
		if err != nil {
			return model.TaskUpdate{}, err
		}
		upd.DueDate = model.SetTo(due)
	}
	return upd, nil
}
