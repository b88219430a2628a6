// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package serial_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/command/handlers"
	"github.com/holomush/serialcli/internal/device"
	"github.com/holomush/serialcli/internal/observability"
	"github.com/holomush/serialcli/internal/serial"
)

const prompt = "> "

// client is a line-oriented terminal on a bridge connection.
type client struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dial(addr string) *client {
	conn, err := net.Dial("tcp", addr)
	Expect(err).NotTo(HaveOccurred())
	Expect(conn.SetDeadline(time.Now().Add(5 * time.Second))).To(Succeed())
	c := &client{conn: conn, reader: bufio.NewReader(conn)}
	c.expectPrompt()
	return c
}

func (c *client) expectPrompt() {
	buf := make([]byte, len(prompt))
	_, err := io.ReadFull(c.reader, buf)
	Expect(err).NotTo(HaveOccurred())
	Expect(string(buf)).To(Equal(prompt))
}

// send writes line and returns the response lines up to the next prompt.
func (c *client) send(line string) []string {
	_, err := c.conn.Write([]byte(line + "\r\n"))
	Expect(err).NotTo(HaveOccurred())

	var out []string
	for {
		peek, err := c.reader.Peek(len(prompt))
		Expect(err).NotTo(HaveOccurred())
		if string(peek) == prompt {
			_, _ = c.reader.Discard(len(prompt))
			return out
		}
		text, err := c.reader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		out = append(out, strings.TrimSuffix(text, "\r\n"))
	}
}

func (c *client) close() {
	_ = c.conn.Close()
}

var _ = Describe("Serial bridge", func() {
	var (
		ctx     context.Context
		cancel  context.CancelFunc
		srv     *serial.Server
		metrics *observability.Metrics
		done    chan error
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())

		store := device.NewStore()
		dispatcher, err := command.NewDispatcher(
			handlers.New(store, buildinfo.New("2.1.0", "deadbeef", "2026-02-02")).Table())
		Expect(err).NotTo(HaveOccurred())

		metrics = observability.NewMetrics(prometheus.NewRegistry())
		srv = serial.NewServer("127.0.0.1:0", dispatcher,
			serial.SessionConfig{Prompt: prompt, MaxLine: 64}, metrics)

		done = make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()
		Eventually(srv.Ready).Should(BeTrue())
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	Describe("dispatching lines", func() {
		It("lists every command for help", func() {
			c := dial(srv.Addr())
			defer c.close()

			lines := c.send("help")
			Expect(lines).To(HaveLen(8))
			Expect(lines[0]).To(Equal("Known commands:"))
			Expect(lines[1:]).To(ContainElement(HavePrefix("version -> ")))
		})

		It("reports unknown commands and bad parameter counts", func() {
			c := dial(srv.Addr())
			defer c.close()

			Expect(c.send("reboot")).To(Equal([]string{strings.TrimSuffix(command.MsgUnknownCommand, "\r\n")}))
			Expect(c.send("set onlykey")).To(Equal([]string{strings.TrimSuffix(command.MsgInvalidArgs, "\r\n")}))
			Expect(c.send("settings x y")).To(Equal([]string{strings.TrimSuffix(command.MsgUnknownCommand, "\r\n")}))
		})

		It("rejects lines longer than the limit and keeps serving", func() {
			c := dial(srv.Addr())
			defer c.close()

			Expect(c.send("echo " + strings.Repeat("x", 200))).To(Equal([]string{"Line too long."}))
			Expect(c.send("echo ok")).To(Equal([]string{"ok"}))
			Expect(testutil.ToFloat64(metrics.LinesTotal.WithLabelValues(observability.LineOverflow))).To(BeNumerically("==", 1))
		})
	})

	Describe("shared device state", func() {
		It("is visible across sessions", func() {
			a := dial(srv.Addr())
			defer a.close()
			b := dial(srv.Addr())
			defer b.close()

			Expect(a.send("set sensor.temp 21")).To(Equal([]string{"OK"}))
			Expect(a.send("set sensor.hum 40")).To(Equal([]string{"OK"}))
			Expect(b.send("get sensor.*")).To(Equal([]string{"sensor.hum=40", "sensor.temp=21"}))
			Expect(b.send("led toggle")).To(Equal([]string{"led: on"}))
			Expect(a.send("status")).To(ContainElement("led: on"))
		})

		It("serves concurrent sessions independently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					c := dial(srv.Addr())
					defer c.close()
					for j := 0; j < 5; j++ {
						Expect(c.send("echo ping")).To(Equal([]string{"ping"}))
					}
				}()
			}
			wg.Wait()

			Eventually(srv.ActiveSessions).Should(BeZero())
			Expect(testutil.ToFloat64(metrics.SessionsTotal.WithLabelValues(serial.TransportTCP))).To(BeNumerically("==", 5))
		})
	})

	It("reports the firmware version against a constraint", func() {
		c := dial(srv.Addr())
		defer c.close()

		Expect(c.send("version")).To(Equal([]string{"serialcli v2.1.0 (commit: deadbeef, built: 2026-02-02)"}))
		Expect(c.send("version ^2.0")).To(Equal([]string{"v2.1.0 ^2.0: yes"}))
	})
})
