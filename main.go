/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	releaseVersion = "0.1.0"
)

func run(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	fs := afero.NewOsFs()

	profileStore, err := OpenStore(fs, cfg.profilePath())
	if err != nil {
		return err
	}
	sessionStore, err := OpenStore(fs, cfg.sessionPath())
	if err != nil {
		return err
	}

	profile := NewProfile(profileStore)
	if cfg.username != "" {
		if err := profile.SetDisplayName(cfg.username); err != nil {
			return err
		}
	}

	view := presenters{newTerminal(out)}

	var web *viewServer
	if cfg.viewPort > 0 {
		web = newViewServer(cfg)
		view = append(view, web)
	}

	log.Info().Str("server", cfg.endpoint()).Str("tab", cfg.tab).Msgf("minigames v%s", releaseVersion)

	app := NewApp(cfg, profile, NewSessionStore(sessionStore), view, nil)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Run(ctx)
	})

	if web != nil {
		g.Go(func() error {
			return ServeView(ctx, web)
		})
	}

	go func() {
		if err := readInput(ctx, in, app.Input); err != nil {
			logf("INPUT: %v", err)
		}
	}()

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := &Config{}
	err := newCmd(cfg).ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}
