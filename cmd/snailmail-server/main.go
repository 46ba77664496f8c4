package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rexxDigital/snailmail/internal/accounts"
	"github.com/rexxDigital/snailmail/internal/config"
	"github.com/rexxDigital/snailmail/internal/db"
	"github.com/rexxDigital/snailmail/internal/imap"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/internal/server"
	services "github.com/rexxDigital/snailmail/internal/services/mail"
	"github.com/rexxDigital/snailmail/internal/services/sync"
	"github.com/rexxDigital/snailmail/internal/smtp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "store-password" {
		if err := storePassword(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to load config")
	}
	if err := logging.SetLevel(cfg.Server.LogLevel); err != nil {
		logging.Log.WithError(err).Warn("Unknown log level, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Log.WithError(err).Fatal("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	dbClient, err := db.NewClient(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if cfg.Server.Seed {
		if err := dbClient.SeedInbox(ctx, services.SeedInbox); err != nil {
			return err
		}
	}

	var relayer services.Relayer
	if cfg.Relay.Host != "" {
		password, err := accounts.ResolvePassword(accounts.Relay, cfg.Relay.Username, cfg.Relay.Password)
		if err != nil {
			return err
		}
		relayer = smtp.NewRelay(cfg.Relay, password)
	}

	mailService := services.NewMailService(dbClient, relayer)
	defer mailService.Close()
	api := server.New(cfg.Server, mailService)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Log.WithField("addr", cfg.Server.Addr).Info("HTTP API listening")
		return api.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		return api.Shutdown()
	})

	if cfg.SMTP.Addr != "" {
		smtpServer := smtp.NewServer(cfg.SMTP, mailService)
		g.Go(func() error {
			logging.Log.WithField("addr", cfg.SMTP.Addr).Info("SMTP listening")
			return smtpServer.ListenAndServe()
		})
		g.Go(func() error {
			<-ctx.Done()
			return smtpServer.Close()
		})
	}

	if cfg.IMAP.Server != "" {
		password, err := accounts.ResolvePassword(accounts.IMAP, cfg.IMAP.Username, cfg.IMAP.Password)
		if err != nil {
			return err
		}
		syncer := sync.NewSyncService(imap.NewImporter(cfg.IMAP, password, mailService), []string{cfg.IMAP.Folder}, cfg.IMAP.Interval)
		syncer.Start()
		syncer.InitSync()
		g.Go(func() error {
			<-ctx.Done()
			syncer.Stop()
			logging.Log.WithField("imported", syncer.GetStatus().Imported).Info("IMAP import stopped")
			return nil
		})
	}

	return g.Wait()
}

// storePassword saves a relay or IMAP password in the OS keyring.
// Usage: snailmail-server store-password <relay|imap> <username>
func storePassword(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: snailmail-server store-password <relay|imap> <username>")
	}

	kind := accounts.Kind(args[0])
	if kind != accounts.Relay && kind != accounts.IMAP {
		return fmt.Errorf("unknown account kind %q", args[0])
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		return err
	}

	return accounts.SetPassword(kind, args[1], strings.TrimRight(password, "\r\n"))
}
