// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command booklist is the terminal driver for the reading list.
//
// It opens the same byte store as the API server (selected by STORAGE_DRIVER),
// applies one intent per invocation and prints the resulting views.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookshelf/internal/bootstrap"
	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/logging"
)

// session holds the collaborators opened for one invocation.
type session struct {
	dispatcher *book.Dispatcher
	notifier   *terminalNotifier
	out        io.Writer
	close      func()
}

var current *session

var rootCmd = &cobra.Command{
	Use:           "booklist",
	Version:       constants.AppVersion,
	Short:         "Track the books you want to read and the ones you have read",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opened, err := open(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		current = opened
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.close()
		}
	},
}

// open loads configuration and the collection.
func open(ctx context.Context, out, errOut io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Logs stay off the terminal unless a file or debug output is requested
	fallback := io.Discard
	if cfg.Debug {
		fallback = errOut
	}
	log, logCloser := logging.New(fallback, logging.Options{
		App:   constants.AppName + "-cli",
		Debug: cfg.Debug,
		File:  cfg.LogFile,
	})
	slog.SetDefault(log)

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	notifier := newTerminalNotifier(errOut)
	dispatcher, err := bootstrap.NewDispatcher(ctx, store, log,
		book.WithNotifier(notifier),
	)
	if err != nil {
		store.Close()
		_ = logCloser.Close()
		return nil, err
	}

	return &session{
		dispatcher: dispatcher,
		notifier:   notifier,
		out:        out,
		close: func() {
			store.Close()
			_ = logCloser.Close()
		},
	}, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Domain errors were already shown by the notifier
		if current == nil || !current.notifier.reportedError() {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		if current != nil {
			current.close()
		}
		os.Exit(1)
	}
}
