package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/openframe"
)

// demo is a small route set exercising the facade: path and query params,
// session values and config reads.
type demo struct{}

func (demo) Routes(r openframe.Router) {
	r.GET("/", index)
	r.GET("/hello/{name}", hello)
	r.Route("/session", func(r openframe.Router) {
		r.GET("/", showSession)
		r.POST("/", setSession)
		r.DELETE("/{key}", deleteSession)
	})
	r.GET("/visits", visits)
}

func index(ctx context.Context) error {
	name, err := openframe.Config(ctx, "app.name", "openframe")
	if err != nil {
		return err
	}
	return openframe.WriteString(ctx, name+"\n")
}

func hello(ctx context.Context) error {
	name, err := openframe.PathParam(ctx, "name")
	if err != nil {
		return err
	}
	greeting, _ := openframe.Param(ctx, "greeting", "hello")
	return openframe.WriteString(ctx, greeting+", "+name+"\n")
}

func showSession(ctx context.Context) error {
	id, err := openframe.SessionID(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return openframe.ErrNotFound("no session")
	}
	key, _ := openframe.Param(ctx, "key", "")
	if key == "" {
		return openframe.WriteString(ctx, id+"\n")
	}
	v, err := openframe.SessionValue(ctx, key, "")
	if err != nil {
		return err
	}
	return openframe.WriteString(ctx, key+"="+v+"\n")
}

func setSession(ctx context.Context) error {
	key, _ := openframe.Param(ctx, "key", "")
	if key == "" {
		return openframe.ErrBadRequest("key is required")
	}
	value, _ := openframe.Param(ctx, "value", "")
	if err := openframe.SetSessionValue(ctx, key, value); err != nil {
		return err
	}
	return openframe.SetResponseStatus(ctx, http.StatusNoContent)
}

func deleteSession(ctx context.Context) error {
	key, err := openframe.PathParam(ctx, "key")
	if err != nil {
		return err
	}
	if err := openframe.DeleteSessionValue(ctx, key); err != nil {
		return err
	}
	return openframe.SetResponseStatus(ctx, http.StatusNoContent)
}

func visits(ctx context.Context) error {
	n, err := openframe.SessionValue(ctx, "visits", "0")
	if err != nil {
		return err
	}
	count, _ := strconv.Atoi(n)
	count++
	if err := openframe.SetSessionValue(ctx, "visits", strconv.Itoa(count)); err != nil {
		return err
	}
	if err := openframe.SetResponseHeader(ctx, "Content-Type", "text/plain; charset=utf-8"); err != nil {
		return err
	}
	return openframe.WriteString(ctx, strconv.Itoa(count)+"\n")
}
