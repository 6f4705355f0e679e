// Package http provides HTTP handlers for farm resolution, authorization and remote access.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/farmaggregator/internal/auth/http"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	"github.com/allisson/farmaggregator/internal/farm/http/dto"
	farmUseCase "github.com/allisson/farmaggregator/internal/farm/usecase"
	"github.com/allisson/farmaggregator/internal/httputil"
	customValidation "github.com/allisson/farmaggregator/internal/validation"
)

// FarmHandler serves the farm endpoints. Every endpoint reads the caller's access grant
// from the request context, so it must run behind the authentication middleware.
type FarmHandler struct {
	resolver      farmUseCase.FarmResolver
	clientFactory farmUseCase.ClientFactory
	authorization farmUseCase.AuthorizationUseCase
	logger        *slog.Logger
}

// NewFarmHandler creates a new farm handler.
func NewFarmHandler(
	resolver farmUseCase.FarmResolver,
	clientFactory farmUseCase.ClientFactory,
	authorization farmUseCase.AuthorizationUseCase,
	logger *slog.Logger,
) *FarmHandler {
	return &FarmHandler{
		resolver:      resolver,
		clientFactory: clientFactory,
		authorization: authorization,
		logger:        logger,
	}
}

// ListHandler resolves the farms the caller may act on.
// GET /v1/farms?farm_url=&farm_id=&active=
func (h *FarmHandler) ListHandler(c *gin.Context) {
	var query dto.ListFarmsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := query.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	farms, err := h.resolver.ResolveCombined(
		c.Request.Context(),
		query.FarmURL,
		query.FarmIDs,
		authHTTP.GetGrant(c.Request.Context()),
		query.ActiveOnly(),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFarmsToListResponse(farms))
}

// GetHandler returns a single farm.
// GET /v1/farms/:id
func (h *FarmHandler) GetHandler(c *gin.Context) {
	farmID, ok := h.parseFarmID(c)
	if !ok {
		return
	}

	farm, err := h.resolver.ResolveByID(c.Request.Context(), farmID, authHTTP.GetGrant(c.Request.Context()))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFarmToResponse(farm))
}

// AuthorizeHandler completes the farm's authorization-code flow.
// POST /v1/farms/:id/authorize
func (h *FarmHandler) AuthorizeHandler(c *gin.Context) {
	farmID, ok := h.parseFarmID(c)
	if !ok {
		return
	}

	var req dto.AuthorizeFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	farm, err := h.authorization.Authorize(
		c.Request.Context(),
		farmID,
		authHTTP.GetGrant(c.Request.Context()),
		req.ToAuthParams(),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFarmToResponse(farm))
}

// InfoHandler builds an authenticated client for the farm and returns its API root document.
// GET /v1/farms/:id/info
func (h *FarmHandler) InfoHandler(c *gin.Context) {
	farmID, ok := h.parseFarmID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	farm, err := h.resolver.ResolveByID(ctx, farmID, authHTTP.GetGrant(ctx))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	client, err := h.clientFactory.BuildClient(ctx, farm)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	info, err := client.Info(ctx)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.FarmInfoResponse{
		FarmID: farm.ID,
		URL:    client.BaseURL(),
		Info:   info,
	})
}

func (h *FarmHandler) parseFarmID(c *gin.Context) (int64, bool) {
	farmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || farmID <= 0 {
		httputil.HandleBadRequestGin(c, apperrors.New("invalid farm id"), h.logger)
		return 0, false
	}
	return farmID, true
}
