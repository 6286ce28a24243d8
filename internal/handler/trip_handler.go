package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"travelshare/internal/model"
	"travelshare/internal/service"
)

// TripHandler serves the trip list and sharing endpoints.
type TripHandler struct {
	tripService  service.TripService
	shareService service.ShareService
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(tripService service.TripService, shareService service.ShareService) *TripHandler {
	return &TripHandler{tripService: tripService, shareService: shareService}
}

// AddTripRequest selects a catalog trip, either by name or with the legacy
// viagem1/viagem2/viagem3 checkboxes. A checkbox counts as ticked when its
// key is present, whatever the value; a JSON null counts as absent.
type AddTripRequest struct {
	Trip    string      `json:"trip" form:"trip"`
	Viagem1 interface{} `json:"viagem1,omitempty" swaggertype:"string"`
	Viagem2 interface{} `json:"viagem2,omitempty" swaggertype:"string"`
	Viagem3 interface{} `json:"viagem3,omitempty" swaggertype:"string"`
}

// Selector resolves the requested catalog trip.
func (r AddTripRequest) Selector() model.TripSelector {
	if trip := strings.TrimSpace(r.Trip); trip != "" {
		return model.TripSelector(strings.ToLower(trip))
	}
	return model.SelectorFromLegacyFlags(r.Viagem1 != nil, r.Viagem2 != nil)
}

// bindAddTripRequest keeps checkbox presence: JSON bodies are decoded into
// the interface fields and form bodies are read by key.
func bindAddTripRequest(c echo.Context) (AddTripRequest, error) {
	var req AddTripRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}
		return req, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return req, err
	}
	req.Trip = form.Get("trip")
	for key, dst := range map[string]*interface{}{
		"viagem1": &req.Viagem1,
		"viagem2": &req.Viagem2,
		"viagem3": &req.Viagem3,
	} {
		if values, ok := form[key]; ok {
			*dst = strings.Join(values, ",")
		}
	}
	return req, nil
}

// ShareTripRequest carries the legacy share form.
type ShareTripRequest struct {
	TargetEmail string `json:"usuarioCompartilhado" form:"usuarioCompartilhado" validate:"required"`
	Selection   string `json:"selectViagens" form:"selectViagens" validate:"required"`
}

// AddTrip godoc
// @Summary Add a catalog trip to the caller's list
// @Tags trips
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body AddTripRequest true "Trip selection"
// @Success 201 {object} model.Trip
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios/viagens [post]
func (h *TripHandler) AddTrip(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	req, err := bindAddTripRequest(c)
	if err != nil {
		return badRequest("invalid request body")
	}

	trip, err := h.tripService.AddTrip(c.Request().Context(), p.UserID, req.Selector())
	if err != nil {
		return legacyErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, trip)
}

// ShareTrip godoc
// @Summary Share a trip with another user
// @Tags trips
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body ShareTripRequest true "Target email and serialized trip"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /usuarios/compartilhar [post]
func (h *TripHandler) ShareTrip(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req ShareTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if _, err := h.shareService.ShareTrip(c.Request().Context(), p.UserID, req.TargetEmail, req.Selection); err != nil {
		return legacyErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "trip shared"})
}
