package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/discussion"
)

type discussionApi struct {
	svc      discussion.Service
	validate *validator.Validate
}

func registerDiscussionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc discussion.Service, validate *validator.Validate) {
	api := discussionApi{svc: svc, validate: validate}

	dg := g.Group("/discussions", jwt)
	dg.GET("", api.query)
	dg.POST("", api.createThread)
	dg.GET("/:id", api.retrieve)
	dg.POST("/:id/replies", api.reply)
	dg.POST("/:id/replies/:replyID/helpful", api.markHelpful)
}

// Handlers

func (api *discussionApi) createThread(ctx echo.Context) error {
	var data discussion.NewThread
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewThread")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	thread, err := api.svc.CreateThread(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating thread")
	}
	return ctx.JSON(http.StatusCreated, thread)
}

func (api *discussionApi) query(ctx echo.Context) error {
	threads, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	if threads == nil {
		threads = []discussion.Thread{}
	}
	return ctx.JSON(http.StatusOK, threads)
}

func (api *discussionApi) retrieve(ctx echo.Context) error {
	thread, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == discussion.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "finding thread by ID")
	}
	return ctx.JSON(http.StatusOK, thread)
}

func (api *discussionApi) reply(ctx echo.Context) error {
	var data discussion.NewReply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reply, err := api.svc.Reply(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == discussion.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "posting reply")
	}
	return ctx.JSON(http.StatusCreated, reply)
}

func (api *discussionApi) markHelpful(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	err = api.svc.MarkHelpful(ctx.Request().Context(), ctx.Param("id"), ctx.Param("replyID"), claims.Subject)
	if err != nil {
		switch errors.Cause(err) {
		case discussion.ErrNotFound, discussion.ErrReplyNotFound:
			return errNotFound
		case discussion.ErrNotAuthor, discussion.ErrOwnReply:
			return errForbidden
		case discussion.ErrAlreadyMarked:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "marking reply helpful")
	}
	return ctx.NoContent(http.StatusNoContent)
}
