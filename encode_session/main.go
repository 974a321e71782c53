package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/encode-session/driver"
	"github.com/vkngwrapper/encode-session/encode"
	"github.com/vkngwrapper/encode-session/utils"
)

type EncodeSessionApplication struct {
	config *utils.Config
	logger *slog.Logger

	loader  *driver.Loader
	session *encode.Session
}

func (app *EncodeSessionApplication) Run() error {
	err := app.initVulkan()
	if err != nil {
		return err
	}
	defer app.cleanup()

	for _, timing := range app.session.Timings {
		app.logger.Debug("stage timing",
			slog.String("stage", timing.Stage.String()),
			slog.Duration("elapsed", timing.Elapsed),
		)
	}

	app.logger.Info("encode session ready",
		slog.String("session", app.session.ID.String()),
		slog.String("device", app.session.DeviceProperties.DeviceName),
		slog.String("profile", app.session.Profile.String()),
		slog.Int("queue_family", app.session.QueueFamilyIndex),
		slog.String("video_session", fmt.Sprintf("%#x", uint64(app.session.VideoSession))),
	)
	return nil
}

func (app *EncodeSessionApplication) initVulkan() error {
	kind, err := driver.ParseKind(app.config.Loader)
	if err != nil {
		return err
	}

	app.loader, err = driver.NewLoader(kind, app.config.LibraryPath, app.logger)
	if err != nil {
		return err
	}

	opts, err := app.config.Options(app.logger)
	if err != nil {
		return err
	}

	app.session, err = encode.Bootstrap(app.loader, opts)
	return err
}

func (app *EncodeSessionApplication) cleanup() {
	if app.session != nil {
		app.session.Destroy()
		app.session = nil
	}
}

func main() {
	runtime.LockOSThread()

	config, err := utils.ProcessCommandLineArgs(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	app := &EncodeSessionApplication{
		config: config,
		logger: utils.InitLogger(config.Log.Level, config.Log.Format),
	}

	err = app.Run()
	if err != nil {
		attrs := []any{slog.String("error", fmt.Sprintf("%+v", err))}
		if stage, result, ok := encode.FailedStage(err); ok {
			attrs = append(attrs, slog.String("stage", stage.String()), slog.String("result", result.String()))
		}
		app.logger.Error("encode session bootstrap failed", attrs...)
		os.Exit(1)
	}

	fmt.Println("exiting")
}
