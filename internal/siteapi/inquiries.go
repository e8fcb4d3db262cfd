package siteapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spicemart/spicesite/internal/domain"
	"go.uber.org/zap"
)

func (a *API) registerInquiryRoutes(r Router) {
	r.ApiPOST("/inquiries", a.createInquiry)
}

// createInquiry validates, persists and acknowledges a contact form
// submission. The operator email goes out only after the response is
// written and never affects it.
func (a *API) createInquiry(c echo.Context) error {
	req := c.Request()
	if req.ContentLength != 0 && !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return fail(c, http.StatusBadRequest, "Unable to parse inquiry")
	}
	raw := map[string]interface{}{}
	if err := c.Bind(&raw); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse inquiry")
	}
	input, err := domain.DecodeInquiry(raw)
	if err != nil {
		return handleValidationError(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return handleValidationError(c, err)
	}

	inq, err := a.store.CreateInquiry(c.Request().Context(), input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return handleValidationError(c, err)
		}
		zap.L().Error("siteapi: create inquiry failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to create inquiry")
	}

	if err := c.JSON(http.StatusCreated, inq); err != nil {
		return err
	}
	zap.L().Info("siteapi: inquiry received", zap.Int64("id", inq.ID))
	if a.notifier != nil {
		a.notifier.NotifyInquiry(*inq)
	}
	return nil
}

func handleValidationError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, verr.Message)
	}
	return fail(c, http.StatusBadRequest, err.Error())
}
