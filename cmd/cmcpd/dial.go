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
	"github.com/spf13/cobra"

	"github.com/cmcp-project/cmcp/client"
	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/duration"
	"github.com/cmcp-project/cmcp/logger"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/transport"
)

func newDialCommand() *cobra.Command {
	var (
		natsURL  string
		hbPeriod string
		connTO   string
	)

	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Run a CMCP client session against a NATS broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logLevel())

			cfg := client.Config{}
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

			c := client.NewClient(transport.NewNatsDialer(), cfg, log)
			c.SetMessageCallback(func(_ any, cmd message.Command, dl *datalist.DataList) {
				log.Info(nil, "data message: command=%d items=%d", cmd, dl.Len())
			})
			c.OnDisconnect = func() {
				log.Warn(nil, "session timed out")
			}

			if err := c.Connect(natsURL, natsURL); err != nil {
				return err
			}
			log.Info(nil, "client %#04x connected on %s", c.ID(), natsURL)

			waitForSignal()

			log.Info(nil, "client disconnecting")
			return c.Close()
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS broker URL")
	cmd.Flags().StringVar(&hbPeriod, "heartbeat", "", "heartbeat period, e.g. 500ms (default 500ms)")
	cmd.Flags().StringVar(&connTO, "timeout", "", "connection timeout, e.g. 10s (default 10s)")
	return cmd
}
