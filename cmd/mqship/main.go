package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/mqship"
	"github.com/bft-labs/mqship/internal/cliconfig"
	"github.com/bft-labs/mqship/pkg/transport"
)

const helpDescription = `
Ship messages to a broker cluster with transactional buffering and failover.

Reads one message per line from stdin (or takes messages as arguments) and
delivers each to the configured destination. With --transactional, all
messages are buffered and delivered together after the last line, or not at
all if reading fails. On transport failure delivery rotates through the
configured endpoint groups until one accepts.
`

var exampleUsage = strings.TrimSpace(`
  mqship --hosts localhost:61613 --destination /queue/events "hello"
  tail -f app.log | mqship --config $HOME/.mqship/config.toml
  mqship --hosts a:61613,b:61613 --destination events --transactional < batch.txt
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath string
		hosts   string
	)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "mqship [messages...]",
		Short:   "Ship messages to a broker cluster with transactional buffering and failover",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if changed["hosts"] && hosts != "" {
				cfg.Groups = []cliconfig.GroupConfig{cliconfig.ParseHostList("flags", hosts)}
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			cliconfig.ApplyEnvConfig(&cfg, changed)

			if err := cfg.Validate(); err != nil {
				return err
			}

			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				log = log.Level(lvl)
			}

			groups, err := cfg.EndpointGroups()
			if err != nil {
				return err
			}

			dialer := &transport.Dialer{
				ConnectTimeout: cfg.ConnectTimeout,
				WriteTimeout:   cfg.WriteTimeout,
			}

			opts := []mqship.Option{
				mqship.WithLogger(log),
				mqship.WithConnectHeaders(cfg.ProducerConnectHeaders()),
				mqship.WithDefaultHeaders(cfg.ProducerDefaultHeaders()),
				mqship.WithRetryBackoff(cfg.BackoffBase, cfg.BackoffMax),
			}
			if cfg.MaxAttempts > 0 {
				opts = append(opts, mqship.WithMaxAttempts(cfg.MaxAttempts))
			}
			if cfg.Breaker {
				opts = append(opts, mqship.WithCircuitBreaker())
			}

			p, err := mqship.New(groups, dialer, opts...)
			if err != nil {
				return fmt.Errorf("create producer: %w", err)
			}
			defer p.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info().Msg("received signal, stopping...")
				cancel()
			}()

			if cfg.Watch && cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := cliconfig.NewWatcher(cfgFile, p.UpdateGroups, log)
				go watcher.Run(ctx)
			}

			if len(args) > 0 {
				return shipArgs(ctx, p, cfg, args)
			}
			return shipStdin(ctx, p, cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.mqship/config.toml)")
	root.Flags().StringVar(&hosts, "hosts", "", "comma-separated broker host:port list (single endpoint group)")
	root.Flags().StringVar(&cfg.Destination, "destination", cfg.Destination, "destination to send to (normalized with a leading /)")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "dial and handshake timeout")
	root.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "per-frame write timeout")
	root.Flags().DurationVar(&cfg.BackoffBase, "backoff-base", cfg.BackoffBase, "initial delay between endpoint rotations")
	root.Flags().DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "maximum delay between endpoint rotations")
	root.Flags().IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "cap delivery attempts per message (0 = unbounded)")
	root.Flags().BoolVar(&cfg.Breaker, "breaker", cfg.Breaker, "enable per-group circuit breaker around dialing")
	root.Flags().BoolVar(&cfg.Transactional, "transactional", cfg.Transactional, "buffer all input in one transaction")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload endpoint groups when the config file changes")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("mqship")
		os.Exit(1)
	}
}

func shipArgs(ctx context.Context, p *mqship.Producer, cfg cliconfig.Config, args []string) error {
	if !cfg.Transactional {
		for _, msg := range args {
			if err := p.Send(ctx, cfg.Destination, nil, msg); err != nil {
				return err
			}
		}
		return nil
	}
	return p.InTransaction(ctx, func(ctx context.Context) error {
		for _, msg := range args {
			if err := p.Send(ctx, cfg.Destination, nil, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

func shipStdin(ctx context.Context, p *mqship.Producer, cfg cliconfig.Config) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)

	ship := func(ctx context.Context) error {
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			line := scanner.Text()
			if line == "" {
				continue
			}
			if err := p.Send(ctx, cfg.Destination, nil, line); err != nil {
				return err
			}
		}
		return scanner.Err()
	}

	if !cfg.Transactional {
		return ship(ctx)
	}
	return p.InTransaction(ctx, ship)
}
