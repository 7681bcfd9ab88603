package transfer

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"warehouse.GO/api"
	transferEntity "warehouse.GO/model/entity/transfer"
	catalogRepo "warehouse.GO/model/repository/catalog"
	transferRepo "warehouse.GO/model/repository/transfer"
	transferService "warehouse.GO/service/transfer"
)

func init() {
	api.RegisterModule(RegisterTransferRoutes)
}

func RegisterTransferRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc, err := transferService.NewTransferService(db, catalogRepo.NewCatalogRepository(db))
	if err != nil {
		log.Fatalf("transfer api: %v", err)
	}

	g := apiGroup.Group("/transfers")

	g.POST("", func(c echo.Context) error {
		var body struct {
			FromWarehouseID uint   `json:"from_warehouse_id"`
			ToWarehouseID   uint   `json:"to_warehouse_id"`
			ProductID       uint   `json:"product_id"`
			Quantity        int    `json:"quantity"`
			Priority        string `json:"priority"`
			Reason          string `json:"reason"`
			RequestedBy     string `json:"requested_by"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Create(transferService.CreateInput{
			FromWarehouseID: body.FromWarehouseID,
			ToWarehouseID:   body.ToWarehouseID,
			ProductID:       body.ProductID,
			Quantity:        body.Quantity,
			Priority:        transferEntity.Priority(body.Priority),
			Reason:          body.Reason,
			RequestedBy:     body.RequestedBy,
		})
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, req)
	})

	g.GET("", func(c echo.Context) error {
		f := transferRepo.ListFilter{
			Status: transferEntity.Status(c.QueryParam("status")),
		}
		if v := c.QueryParam("warehouse"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse filter"})
			}
			f.WarehouseID = uint(id)
		}
		if v := c.QueryParam("product"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product filter"})
			}
			f.ProductID = uint(id)
		}
		if v := c.QueryParam("limit"); v != "" {
			n, _ := strconv.Atoi(v)
			f.Limit = n
		}
		if v := c.QueryParam("offset"); v != "" {
			n, _ := strconv.Atoi(v)
			f.Offset = n
		}
		if f.Status != "" && !f.Status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
		}
		reqs, err := svc.List(f)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": reqs, "count": len(reqs)})
	})

	g.GET("/:id", func(c echo.Context) error {
		req, err := svc.Get(c.Param("id"))
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})

	g.POST("/:id/approve", func(c echo.Context) error {
		var body struct {
			ApproverID string `json:"approver_id"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Approve(c.Param("id"), body.ApproverID)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})

	g.POST("/:id/reject", func(c echo.Context) error {
		var body struct {
			ApproverID string `json:"approver_id"`
			Reason     string `json:"reason"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Reject(c.Param("id"), body.ApproverID, body.Reason)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})

	g.POST("/:id/cancel", func(c echo.Context) error {
		var body struct {
			ActorID string `json:"actor_id"`
			Reason  string `json:"reason"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Cancel(c.Param("id"), body.ActorID, body.Reason)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})

	g.POST("/:id/dispatch", func(c echo.Context) error {
		var body struct {
			DispatcherID string `json:"dispatcher_id"`
			Remarks      string `json:"remarks"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Dispatch(c.Param("id"), body.DispatcherID, body.Remarks)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})

	g.POST("/:id/receive", func(c echo.Context) error {
		var body struct {
			ReceiverID     string `json:"receiver_id"`
			ActualQuantity int    `json:"actual_quantity"`
			Remarks        string `json:"remarks"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req, err := svc.Receive(c.Param("id"), body.ReceiverID, body.ActualQuantity, body.Remarks)
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, req)
	})
}
