package adaptor

import (
	"net/http"

	"cinebook/internal/dto/request"
	"cinebook/internal/usecase"
	"cinebook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CinemaHandler struct {
	service usecase.CinemaService
	log     *zap.Logger
}

func NewCinemaHandler(service usecase.CinemaService, log *zap.Logger) *CinemaHandler {
	return &CinemaHandler{
		service: service,
		log:     log.With(zap.String("handler", "cinema")),
	}
}

// GetCinemas handles GET /api/cinemas
func (h *CinemaHandler) GetCinemas(w http.ResponseWriter, r *http.Request) {
	cinemas, err := h.service.GetCinemas(r.Context(), paginationFromQuery(r), optionalQuery(r, "city"))
	if err != nil {
		writeServiceError(w, h.log, err, "get cinemas")
		return
	}

	utils.ResponseSuccess(w, "Cinemas retrieved successfully", cinemas)
}

// GetCinemaByID handles GET /api/cinemas/{id}
func (h *CinemaHandler) GetCinemaByID(w http.ResponseWriter, r *http.Request) {
	cinema, err := h.service.GetCinemaByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get cinema by ID")
		return
	}

	utils.ResponseSuccess(w, "Cinema retrieved successfully", cinema)
}

// GetScreening handles GET /api/screenings/{id}
func (h *CinemaHandler) GetScreening(w http.ResponseWriter, r *http.Request) {
	screening, err := h.service.GetScreening(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get screening")
		return
	}

	utils.ResponseSuccess(w, "Screening retrieved successfully", screening)
}

// CreateCinema handles POST /api/admin/cinemas
func (h *CinemaHandler) CreateCinema(w http.ResponseWriter, r *http.Request) {
	var req request.CinemaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cinema, err := h.service.CreateCinema(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create cinema")
		return
	}

	utils.ResponseCreated(w, "Cinema created successfully", cinema)
}

// CreateHall handles POST /api/admin/cinemas/{id}/halls
func (h *CinemaHandler) CreateHall(w http.ResponseWriter, r *http.Request) {
	var req request.HallRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hall, err := h.service.CreateHall(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create hall")
		return
	}

	utils.ResponseCreated(w, "Hall created successfully", hall)
}

// CreateScreening handles POST /api/admin/screenings
func (h *CinemaHandler) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req request.ScreeningRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	screening, err := h.service.CreateScreening(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create screening")
		return
	}

	utils.ResponseCreated(w, "Screening created successfully", screening)
}
