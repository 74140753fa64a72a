package rental

import (
	"log/slog"
	"net/http"

	"campuscloset/app/echoServer/jwtx"
	"campuscloset/app/echoServer/respond"
	"campuscloset/app/echoServer/validation"
	"campuscloset/model"
	rs "campuscloset/service/rental"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// ProcessPayment
// @Summary      Pay for a rental
// @Description  Charges the card token once and records a confirmed rental
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  ProcessPaymentReq  true  "Payment payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any "user or listing not found"
// @Failure      409  {object}  map[string]any "dates already rented"
// @Failure      500  {object}  map[string]any "payment processing failed"
// @Router       /api/process-payment [post]
func (h *Controller) ProcessPayment(c echo.Context) error {
	var req ProcessPaymentReq
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		h.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, validation.Message(err))
	}
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "Invalid start date")
	}
	end, err := model.ParseDate(req.EndDate)
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "Invalid end date")
	}

	out, err := h.Svc.ProcessPayment(c.Request().Context(), rs.PaymentReq{
		SourceID:       req.SourceID,
		Amount:         req.Amount,
		ListingID:      req.ListingID,
		StartDate:      start,
		EndDate:        end,
		UserEmail:      req.UserEmail,
		SessionEmail:   jwtx.EmailFromContext(c),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return respond.Fail(c, h.Log, "process payment", err)
	}
	return respond.OK(c, echo.Map{
		"paymentId": out.PaymentID,
		"rentalId":  out.RentalID,
	})
}

// MyRentals
// @Summary      Rental history
// @Description  Rentals of the logged-in user with listing details, newest first
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/rentals [get]
func (h *Controller) MyRentals(c echo.Context) error {
	rows, err := h.Svc.ListRentals(c.Request().Context(), jwtx.EmailFromContext(c))
	if err != nil {
		return respond.Fail(c, h.Log, "rental history", err)
	}
	return respond.OK(c, echo.Map{"rentals": rows})
}
