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

package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	libdur "github.com/nabbar/jrpc/pkg/duration"
	libprm "github.com/nabbar/jrpc/pkg/permfile"
	"github.com/nabbar/jrpc/server"
)

// daemonConfig is the top-level shape cmd/jrpcd decodes from flags/env/file.
// On a config file change viper re-decodes the whole struct, but only
// LogLevel is applied: the running server keeps the Workers/BufferSize and
// other server.Config values it was started with, and jrpcd only logs that
// the file changed.
type daemonConfig struct {
	Server      server.Config `mapstructure:",squash"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	LogLevel    string        `mapstructure:"log_level"`
}

func loadConfig(v *viper.Viper) (daemonConfig, error) {
	var cfg daemonConfig
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		libdur.ViperDecoderHook(),
		libprm.ViperDecoderHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return daemonConfig{}, err
	}
	return cfg, nil
}

// watchConfig logs whenever the config file changes, matching the
// teacher's fsnotify-driven config reload convention - jrpcd only acts on
// LogLevel changes since the socket/worker shape is fixed for the life of
// the process.
func watchConfig(v *viper.Viper, log *logrus.Logger, onLevelChange func(level string)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Info("configuration file changed")
		cfg, err := loadConfig(v)
		if err != nil {
			log.WithField("error", err.Error()).Warn("failed to reload configuration")
			return
		}
		onLevelChange(cfg.LogLevel)
	})
	v.WatchConfig()
}
