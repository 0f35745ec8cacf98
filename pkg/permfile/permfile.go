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

// Package permfile gives the server's socket-file permission a config-
// friendly type: an octal string in a config file or env var ("0600")
// decodes straight into a Perm via Viper's mapstructure decode hook.
package permfile

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Perm is a Unix file permission, config-decodable from an octal string.
type Perm os.FileMode

// DefaultSocketPerm is applied when a server config omits PermFile: owner
// read/write only, matching the reference's "filesystem permissions are
// the only access control" posture (spec.md §1 Non-goals).
const DefaultSocketPerm Perm = 0600

// FileMode converts to the standard library's os.FileMode.
func (p Perm) FileMode() os.FileMode { return os.FileMode(p) }

func parse(s string) (Perm, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("permfile: invalid octal permission %q: %w", s, err)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("permfile: permission %q out of range", s)
	}
	return Perm(v), nil
}

// Parse parses an octal permission string ("0600") into a Perm.
func Parse(s string) (Perm, error) { return parse(s) }

// ViperDecoderHook lets github.com/spf13/viper decode an octal string
// config value directly into a Perm field, via the mapstructure hook
// mechanism Viper's Unmarshal already threads through.
func ViperDecoderHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to != reflect.TypeOf(Perm(0)) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return parse(s)
	}
}
