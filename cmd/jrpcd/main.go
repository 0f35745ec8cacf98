/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command jrpcd is the reference server binary: it binds the example
// handlers in internal/demo onto a server.Server and serves until signaled.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/jrpc/internal/demo"
	"github.com/nabbar/jrpc/logging"
	"github.com/nabbar/jrpc/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "jrpcd",
		Short: "jrpcd serves the example JSON-RPC handlers over a Unix socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(v)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to a configuration file (json/yaml/toml)")
	flags.String("socket", "/tmp/jrpcd.sock", "socket path to listen on")
	flags.Int("workers", server.DefaultWorkers, "worker pool size")
	flags.Int("buffer-size", server.DefaultBufferSize, "per-request read buffer, in bytes")
	flags.Int("max-methods", server.DefaultMaxMethods, "registry capacity")
	flags.String("metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	flags.String("log-level", "info", "logrus level: debug, info, warn, error")

	// daemonConfig.Server is mapstructure:",squash" - its fields decode from
	// the top level of the config map, not under a "server" key.
	_ = v.BindPFlag("socket_path", flags.Lookup("socket"))
	_ = v.BindPFlag("workers", flags.Lookup("workers"))
	_ = v.BindPFlag("buffer_size", flags.Lookup("buffer-size"))
	_ = v.BindPFlag("max_methods", flags.Lookup("max-methods"))
	_ = v.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	cobra.OnInitialize(func() {
		if path, _ := flags.GetString("config"); path != "" {
			v.SetConfigFile(path)
			_ = v.ReadInConfig()
		}
	})

	return cmd
}

func runDaemon(v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return fmt.Errorf("jrpcd: decode configuration: %w", err)
	}

	logr := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logr.SetLevel(level)
	log := logging.New(logr, os.Stderr)

	watchConfig(v, logr, func(newLevel string) {
		if lvl, perr := logrus.ParseLevel(newLevel); perr == nil {
			logr.SetLevel(lvl)
		}
	})

	reg := prometheus.NewRegistry()
	srv, err := server.New(cfg.Server, log, reg)
	if err != nil {
		return fmt.Errorf("jrpcd: create server: %w", err)
	}

	demo.Register(srv, demo.NewKV())

	srv.OnError(func(err error) {
		log.WithFields(logging.Fields{"error": err.Error()}).Error("server error")
	})
	srv.OnConnState(func(workerID int, remoteAddr string, state server.ConnState) {
		log.WithFields(logging.Fields{"worker": workerID, "state": state.String()}).Debug("connection state changed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = srv.Start(ctx); err != nil {
		return fmt.Errorf("jrpcd: start server: %w", err)
	}
	log.WithFields(logging.Fields{"socket": cfg.Server.SocketPath}).Info("jrpcd listening")

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if serveErr := metricsSrv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				log.WithFields(logging.Fields{"error": serveErr.Error()}).Error("metrics server failed")
			}
		}()
		log.WithFields(logging.Fields{"addr": cfg.MetricsAddr}).Info("serving metrics")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	cancel()

	dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dcancel()
	if err = srv.Destroy(dctx); err != nil {
		log.WithFields(logging.Fields{"error": err.Error()}).Error("error during shutdown")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(dctx)
	}

	return nil
}
