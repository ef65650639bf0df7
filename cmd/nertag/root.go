package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nertag/internal/classifier"
	"nertag/internal/config"
	"nertag/internal/httpapi"
	"nertag/internal/registry"
	"nertag/pkg/types"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nertag",
		Short:         "Serialized front-end for a stdio NER engine",
		Long:          "nertag feeds text to a long-running named-entity tagger over stdin/stdout, one request at a time, and parses the tagged output back into entity groups.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (.yaml, .json or .toml)")
	pf.String("install-path", "", "engine installation directory")
	pf.String("jar", "", "engine jar filename")
	pf.String("classifier", "", "classifier filename under classifiers/")
	pf.Int("heap-mb", 0, "JVM max heap in MB")
	pf.String("java-bin", "", "java executable")
	pf.String("metrics-addr", "", "listen address for health/status/metrics (empty = disabled)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newTagCmd(), newRunCmd(), newClassifiersCmd())
	return root
}

func newClassifiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classifiers",
		Short: "List serialized classifiers found in the installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			found, err := registry.LoadDir(filepath.Join(cfg.InstallPath, "classifiers"))
			if err != nil {
				return err
			}
			if found == nil {
				found = []types.ClassifierModel{}
			}
			out, err := json.MarshalIndent(found, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}

// resolveConfig merges the config file (if any) with flag overrides and
// applies defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if v, _ := cmd.Flags().GetString("install-path"); v != "" {
		cfg.InstallPath = v
	}
	if v, _ := cmd.Flags().GetString("jar"); v != "" {
		cfg.JarFile = v
	}
	if v, _ := cmd.Flags().GetString("classifier"); v != "" {
		cfg.ClassifierFile = v
	}
	if v, _ := cmd.Flags().GetInt("heap-mb"); v > 0 {
		cfg.HeapSizeMB = v
	}
	if v, _ := cmd.Flags().GetString("java-bin"); v != "" {
		cfg.JavaBin = v
	}
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		cfg.MetricsAddr = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// shutdownOnSignal returns a context canceled on SIGINT/SIGTERM and closes c
// when that happens, so the engine subprocess is never orphaned. The returned
// stop func releases the signal handler.
func shutdownOnSignal(parent context.Context, c io.Closer) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()
	return ctx, stop
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

func newTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [text]",
		Short: "Classify one text and print its entities as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			cls, err := classifier.New(cfg, log)
			if err != nil {
				return err
			}
			defer cls.Close()
			ctx, stop := shutdownOnSignal(cmd.Context(), cls)
			defer stop()

			res, err := cls.Classify(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out, err := json.Marshal(res)
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Read lines from stdin and print entities for each",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			cls, err := classifier.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := shutdownOnSignal(cmd.Context(), cls)
			defer stop()

			var metricsSrv *http.Server
			if cfg.MetricsAddr != "" {
				httpapi.SetLogger(log)
				metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: httpapi.NewMux(cls)}
				go func() {
					log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listener up")
					if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error().Err(err).Msg("metrics listener failed")
					}
				}()
			}

			sc := bufio.NewScanner(os.Stdin)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			enc := json.NewEncoder(os.Stdout)
			for sc.Scan() {
				text := strings.TrimSpace(sc.Text())
				if text == "" {
					continue
				}
				res, err := cls.Classify(ctx, text)
				if err != nil {
					if classifier.IsShutdown(err) || ctx.Err() != nil {
						break
					}
					return err
				}
				if err := enc.Encode(res); err != nil {
					return err
				}
			}

			_ = cls.Close()
			if metricsSrv != nil {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metricsSrv.Shutdown(sctx)
			}
			return sc.Err()
		},
	}
}
