package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// VehicleHandler serves the fleet endpoints.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
}

func NewVehicleHandler(v *repository.VehicleRepo) *VehicleHandler {
	return &VehicleHandler{Vehicles: v}
}

type vehicleReq struct {
	VIN         string `json:"vin"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number"`
	Year        int    `json:"year"`
}

func (r *vehicleReq) normalize() error {
	r.VIN = strings.ToUpper(strings.TrimSpace(r.VIN))
	r.Model = strings.TrimSpace(r.Model)
	r.PlateNumber = strings.TrimSpace(r.PlateNumber)
	if r.VIN == "" || r.Model == "" {
		return errors.New("vin and model are required")
	}
	return nil
}

// List handles GET /v1/vehicles.
func (h *VehicleHandler) List(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vehicles, err := h.Vehicles.List(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, vehicles)
}

// Get handles GET /v1/vehicles/:vin.
func (h *VehicleHandler) Get(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := h.Vehicles.Get(c.Request().Context(), companyID, strings.ToUpper(c.Param("vin")))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/vehicles.
func (h *VehicleHandler) Create(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v := &model.Vehicle{VIN: req.VIN, CompanyID: companyID, Model: req.Model, PlateNumber: req.PlateNumber, Year: req.Year}
	if err := h.Vehicles.Create(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vin already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /v1/vehicles/:vin.  Renaming the VIN migrates
// every reservation that references it.
func (h *VehicleHandler) Update(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vin := strings.ToUpper(c.Param("vin"))
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VIN == "" {
		req.VIN = vin
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v := &model.Vehicle{VIN: req.VIN, CompanyID: companyID, Model: req.Model, PlateNumber: req.PlateNumber, Year: req.Year}
	if err := h.Vehicles.Update(c.Request().Context(), companyID, vin, v); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "vin already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /v1/vehicles/:vin.  A vehicle that still has
// reservations cannot be removed.
func (h *VehicleHandler) Delete(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vin := strings.ToUpper(c.Param("vin"))
	if err := h.Vehicles.Delete(c.Request().Context(), companyID, vin); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
