package siteapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spicemart/spicesite/internal/domain"
	"github.com/spicemart/spicesite/internal/repository"
)

// Router is the subset of the web server the site endpoints register on.
type Router interface {
	ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc)
	ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc)
}

// InquiryNotifier forwards a stored inquiry without blocking the caller.
type InquiryNotifier interface {
	NotifyInquiry(inq domain.Inquiry)
}

// API serves the public catalog and contact form endpoints.
type API struct {
	store    repository.Store
	notifier InquiryNotifier
}

func New(store repository.Store, notifier InquiryNotifier) *API {
	return &API{store: store, notifier: notifier}
}

// Register mounts the endpoints on r.
func (a *API) Register(r Router) {
	a.registerProductRoutes(r)
	a.registerInquiryRoutes(r)
}

type errorResponse struct {
	Message string `json:"message"`
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{Message: message})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}
