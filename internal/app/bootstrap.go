package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gethired/gethired/internal/config"
	"github.com/gethired/gethired/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container

	stopTasks context.CancelFunc
	tasksDone chan struct{}
}

// Bootstrap builds the container, wires the HTTP app and starts the
// background task runner. The returned cleanup stops the runner and
// closes every connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 8 << 20,
	})

	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(logger).Middleware())
	c.Registry.Register(f)

	tasksCtx, stopTasks := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.TaskRunner.Run(tasksCtx)
	}()

	app := &App{Fiber: f, Container: c, stopTasks: stopTasks, tasksDone: done}

	cleanup := func() error {
		stopTasks()
		<-done
		return c.Close()
	}
	return app, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
