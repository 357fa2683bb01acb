package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/progression"
)

type progressionApi struct {
	svc progression.Service
}

func registerProgressionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc progression.Service) {
	api := progressionApi{svc: svc}

	pg := g.Group("/progression", jwt)
	pg.GET("/me", api.me)
	pg.GET("/levels", api.queryLevels)
	pg.GET("/badges", api.queryBadges)
}

func (api *progressionApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prog, err := api.svc.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting progression")
	}

	res := ProgressionResponse{
		Progression: prog,
		Level:       progression.CurrentLevel(prog.XP),
		Progress:    progression.LevelProgress(prog.XP),
	}
	if next, ok := progression.NextLevel(prog.XP); ok {
		res.NextLevel = &next
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *progressionApi) queryLevels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, progression.Levels)
}

func (api *progressionApi) queryBadges(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, progression.Badges)
}

type ProgressionResponse struct {
	progression.Progression
	Level     progression.Level  `json:"level"`
	NextLevel *progression.Level `json:"next_level,omitempty"`
	Progress  int                `json:"progress"` // percentage into the current level
}
