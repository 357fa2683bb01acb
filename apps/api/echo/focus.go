package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/focus"
)

type focusApi struct {
	svc      focus.Service
	validate *validator.Validate
}

func registerFocusAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc focus.Service, validate *validator.Validate) {
	api := focusApi{svc: svc, validate: validate}

	fg := g.Group("/focus-sessions", jwt)
	fg.GET("", api.query)
	fg.POST("", api.record)
	fg.GET("/stats", api.stats)
}

// Handlers

func (api *focusApi) record(ctx echo.Context) error {
	var data focus.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, err := api.svc.Record(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "recording focus session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *focusApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sessions, err := api.svc.Query(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying focus sessions")
	}
	if sessions == nil {
		sessions = []focus.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *focusApi) stats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing focus stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
