package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/application/location"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/validate"
)

type CitiesHandler struct {
	svc *location.Service
}

func NewCitiesHandler(svc *location.Service) *CitiesHandler {
	return &CitiesHandler{svc: svc}
}

// List: GET /states/{state}/cities
func (h *CitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.ListCitiesOfState(r.Context(), pathParam(r, "state"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCityListResp(cities))
}

// Create: POST /states/{state}/cities
// An unknown state is reported before anything about the body.
func (h *CitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.GetState(r.Context(), pathParam(r, "state"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	req, err := validate.DecodeCreateCity(w, r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	c, err := h.svc.CreateCity(r.Context(), location.CreateCityCmd{
		StateSlug: state.Slug,
		Name:      req.Name,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToCreatedCityResp(c))
}

// Get: GET /states/{state}/cities/{city}
func (h *CitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCity(r.Context(), pathParam(r, "state"), pathParam(r, "city"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCityResp(c))
}

// pathParam returns the segment decoded exactly once. chi matches on RawPath when one is
// set, and on the decoded Path otherwise or after StripSlashes rewrote the route, so a value
// already present in Path is taken as is.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if raw == "" || strings.Contains(r.URL.Path, raw) {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
