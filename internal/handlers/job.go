package handlers

import (
	"net/http"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/services"
)

type JobHandler struct {
	svc *services.JobService
}

func NewJobHandler(svc *services.JobService) *JobHandler { return &JobHandler{svc: svc} }

type jobBody struct {
	CustomerName flexString `json:"customer_name"`
	Contact      flexString `json:"contact"`
	JobType      flexString `json:"job_type"`
	TotalAmount  flexString `json:"total_amount"`
	Advance      flexString `json:"advance"`
	Status       flexString `json:"status"`
	Deadline     flexString `json:"deadline"`
}

func readJobInput(r *http.Request) (models.JobInput, error) {
	if isJSON(r) {
		var b jobBody
		if err := httpx.DecodeJSON(r, &b); err != nil {
			return models.JobInput{}, err
		}
		return models.JobInput{
			CustomerName: string(b.CustomerName),
			Contact:      string(b.Contact),
			JobType:      string(b.JobType),
			TotalAmount:  string(b.TotalAmount),
			Advance:      string(b.Advance),
			Status:       string(b.Status),
			Deadline:     string(b.Deadline),
		}, nil
	}
	if err := r.ParseForm(); err != nil {
		return models.JobInput{}, err
	}
	return models.JobInput{
		CustomerName: r.FormValue("customer_name"),
		Contact:      r.FormValue("contact"),
		JobType:      r.FormValue("job_type"),
		TotalAmount:  r.FormValue("total_amount"),
		Advance:      r.FormValue("advance"),
		Status:       r.FormValue("status"),
		Deadline:     r.FormValue("deadline"),
	}, nil
}

// Handle serves /jobs: GET lists, POST creates.
func (h *JobHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := h.svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "failed_to_list_jobs")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": jobs, "total": len(jobs)})
	case http.MethodPost:
		in, err := readJobInput(r)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		j, err := h.svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err, "job_create_failed")
			return
		}
		httpx.JSON(w, http.StatusCreated, j)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// Update replaces all fields of the job named by ?id=. Any status may be set.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		httpx.MethodNotAllowed(w, http.MethodPost, http.MethodPut)
		return
	}
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	in, err := readJobInput(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	j, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.MethodNotAllowed(w, http.MethodPost, http.MethodDelete)
		return
	}
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Board returns the kanban columns keyed by status.
func (h *JobHandler) Board(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet)
		return
	}
	b, err := h.svc.Board(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed_to_build_board")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}
