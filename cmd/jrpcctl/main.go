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

// Command jrpcctl is an interactive REPL client: it dials a jrpcd socket
// and lets an operator issue "method params-as-json" lines, sync or async.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	libcli "github.com/nabbar/jrpc/client"
	"github.com/nabbar/jrpc/jsonrpc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var socketPath string

	cmd := &cobra.Command{
		Use:   "jrpcctl",
		Short: "jrpcctl is an interactive client for a jrpcd socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(socketPath)
		},
	}

	cmd.Flags().StringVar(&socketPath, "socket", "/tmp/jrpcd.sock", "socket path to dial")
	return cmd
}

func runREPL(socketPath string) error {
	c, err := libcli.Create(libcli.Config{SocketPath: socketPath}, nil)
	if err != nil {
		return fmt.Errorf("jrpcctl: %w", err)
	}
	defer c.Destroy()

	color.Green("connected to %s", socketPath)
	color.Cyan(`type "method [json-params]", prefix with "&" for async, Ctrl-D to quit`)

	p := prompt.New(
		func(line string) { handleLine(c, line) },
		func(d prompt.Document) []prompt.Suggest { return nil },
		prompt.OptionPrefix("jrpc> "),
	)
	p.Run()
	return nil
}

func handleLine(c *libcli.Client, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	async := false
	if strings.HasPrefix(line, "&") {
		async = true
		line = strings.TrimSpace(line[1:])
	}

	method, rawParams, _ := strings.Cut(line, " ")
	var params interface{}
	if rawParams = strings.TrimSpace(rawParams); rawParams != "" {
		if err := json.Unmarshal([]byte(rawParams), &params); err != nil {
			color.Red("bad params: %s", err.Error())
			return
		}
	}

	if async {
		c.CallAsync(method, params, func(result jsonrpc.Result) {
			printResult(method, result)
		})
		return
	}

	result, err := c.CallSync(method, params)
	if err != nil {
		color.Red("%s: %s", method, err.Error())
		return
	}
	printResult(method, result)
}

func printResult(method string, result jsonrpc.Result) {
	if !result.Ok {
		color.Yellow("%s -> (no result)", method)
		return
	}
	color.Green("%s -> %s", method, string(result.Value))
}
