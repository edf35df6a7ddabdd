package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/photodesk/photodesk/internal/config"
)

const usage = `usage: photodesk <command> [flags]

commands:
  list       query the image collection
  upload     upload image files
  delete     delete images by id
  process    batch process images
  edit       edit a single image and commit the result
  share      create a share from image ids
  watermark  show or update watermark settings
  sweep      remove expired collection snapshots
`

// Credential environment variables consumed by every command.
const (
	envEmail    = "PHOTODESK_EMAIL"
	envPassword = "PHOTODESK_PASSWORD"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	rt, err := NewRuntime(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := login(ctx, rt); err != nil {
		rt.Logger.Error("login failed", "error", err)
		os.Exit(1)
	}

	if err := dispatch(ctx, rt, os.Args[1], os.Args[2:]); err != nil {
		rt.Logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func login(ctx context.Context, rt *Runtime) error {
	email := os.Getenv(envEmail)
	password := os.Getenv(envPassword)
	if email == "" || password == "" {
		return fmt.Errorf("set %s and %s", envEmail, envPassword)
	}

	_, err := rt.Auth.Login(ctx, email, password)
	return err
}

func dispatch(ctx context.Context, rt *Runtime, command string, args []string) error {
	switch command {
	case "list":
		return runList(ctx, rt, args)
	case "upload":
		return runUpload(ctx, rt, args)
	case "delete":
		return runDelete(ctx, rt, args)
	case "process":
		return runProcess(ctx, rt, args)
	case "edit":
		return runEdit(ctx, rt, args)
	case "share":
		return runShare(ctx, rt, args)
	case "watermark":
		return runWatermark(ctx, rt, args)
	case "sweep":
		return runSweep(ctx, rt)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}
