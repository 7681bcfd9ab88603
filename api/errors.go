package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	inventoryRepo "warehouse.GO/model/repository/inventory"
	transferService "warehouse.GO/service/transfer"
)

// RespondError maps engine errors onto HTTP statuses. Every failure carries
// the specific field or rule violated so the caller can correct and retry.
func RespondError(c echo.Context, err error) error {
	var (
		validation *transferService.ValidationError
		transition *transferService.IllegalTransitionError
		recon      *transferService.ReconciliationError
		stock      *inventoryRepo.InsufficientStockError
		invariant  *inventoryRepo.InvariantViolationError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &recon):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &transition), errors.As(err, &stock):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &invariant):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
