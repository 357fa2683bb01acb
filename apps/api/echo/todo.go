package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/todo"
)

type todoApi struct {
	svc      todo.Service
	validate *validator.Validate
}

func registerTodoAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc todo.Service, validate *validator.Validate) {
	api := todoApi{svc: svc, validate: validate}

	tg := g.Group("/todos", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *todoApi) create(ctx echo.Context) error {
	var data todo.NewTodo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTodo")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	td, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating todo")
	}
	return ctx.JSON(http.StatusCreated, td)
}

func (api *todoApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	todos, err := api.svc.Query(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying todos")
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return ctx.JSON(http.StatusOK, todos)
}

func (api *todoApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	td, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == todo.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "finding todo by ID")
	}
	return ctx.JSON(http.StatusOK, td)
}

func (api *todoApi) update(ctx echo.Context) error {
	var data todo.UpdateTodo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTodo")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	td, err := api.svc.Update(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == todo.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "updating todo")
	}
	return ctx.JSON(http.StatusOK, td)
}

func (api *todoApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		if errors.Cause(err) == todo.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "deleting todo")
	}
	return ctx.NoContent(http.StatusNoContent)
}
