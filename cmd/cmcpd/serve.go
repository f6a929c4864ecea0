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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/duration"
	"github.com/cmcp-project/cmcp/logger"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/server"
	"github.com/cmcp-project/cmcp/transport"
)

func newServeCommand() *cobra.Command {
	var (
		natsURL  string
		hbPeriod string
		connTO   string
		open     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a CMCP server session against a NATS broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logLevel())

			cfg := server.Config{}
			if hbPeriod != "" {
				d, err := duration.Parse(hbPeriod)
				if err != nil {
					return err
				}
				cfg.HeartbeatPeriod = d
			}
			if connTO != "" {
				d, err := duration.Parse(connTO)
				if err != nil {
					return err
				}
				cfg.ConnectionTimeout = d
			}

			srv := server.NewServer(transport.NewNatsDialer(), cfg, log)
			if open {
				srv.SetAnnouncementCallback(func(_ any, clientID uint16) bool {
					log.Info(nil, "admitting client %#04x", clientID)
					return true
				})
			}
			srv.SetDisconnectCallback(func(_ any, clientID uint16) {
				log.Info(nil, "client %#04x disconnected", clientID)
			})
			srv.SetMessageCallback(func(_ any, clientID uint16, cmd message.Command, dl *datalist.DataList) {
				log.Info(nil, "data message from %#04x: command=%d items=%d", clientID, cmd, dl.Len())
			})

			if err := srv.Bind(natsURL, natsURL); err != nil {
				return err
			}
			log.Info(nil, "server %#04x listening on %s", srv.ID(), natsURL)

			waitForSignal()

			log.Info(nil, "server shutting down")
			return srv.Close()
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS broker URL")
	cmd.Flags().StringVar(&hbPeriod, "heartbeat", "", "heartbeat period, e.g. 500ms (default 500ms)")
	cmd.Flags().StringVar(&connTO, "timeout", "", "connection timeout, e.g. 10s (default 10s)")
	cmd.Flags().BoolVar(&open, "open", false, "admit every announcing client")
	return cmd
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	time.Sleep(10 * time.Millisecond)
}
