package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// CustomerHandler serves the customer roster endpoints.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(r *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: r}
}

func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	customers, err := h.Customers.List(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cust, err := h.Customers.Get(c.Request().Context(), companyID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var cust model.Customer
	if err := c.Bind(&cust); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cust.Name = strings.TrimSpace(cust.Name)
	if cust.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cust.CompanyID = companyID
	id, err := h.Customers.Create(c.Request().Context(), &cust)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	cust.ID = id
	return c.JSON(http.StatusCreated, cust)
}

// Update handles PUT /v1/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var cust model.Customer
	if err := c.Bind(&cust); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cust.Name = strings.TrimSpace(cust.Name)
	if cust.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cust.ID = id
	cust.CompanyID = companyID
	if err := h.Customers.Update(c.Request().Context(), &cust); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Delete handles DELETE /v1/customers/:id.  Customers referenced by
// reservations cannot be deleted.
func (h *CustomerHandler) Delete(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), companyID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetBlacklisted handles PATCH /v1/customers/:id/blacklist.
func (h *CustomerHandler) SetBlacklisted(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Blacklisted bool `json:"is_blacklisted"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Customers.SetBlacklisted(c.Request().Context(), companyID, id, req.Blacklisted); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customer_id": id, "is_blacklisted": req.Blacklisted})
}
