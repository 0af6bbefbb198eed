// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

// Connection provides a common interface for reading/writing bytes from serial or WebSocket
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// SerialConnection wraps a serial port
type SerialConnection struct {
	port serial.Port
}

func (s *SerialConnection) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialConnection) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialConnection) Close() error {
	return s.port.Close()
}

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = errors.New("websocket connection closed")

// WebSocketConnection wraps a WebSocket bridge for byte-level reading.
// A reader goroutine queues binary messages so Read can honour a timeout;
// an expired Read returns 0, nil like a serial port does.
type WebSocketConnection struct {
	conn    *websocket.Conn
	timeout time.Duration

	messages chan []byte
	done     chan struct{}
	err      error
	once     sync.Once

	buf       []byte
	bufOffset int
}

func newWebSocketConnection(conn *websocket.Conn, timeout time.Duration) *WebSocketConnection {
	w := &WebSocketConnection{
		conn:     conn,
		timeout:  timeout,
		messages: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	go w.readLoop()
	return w
}

func (w *WebSocketConnection) readLoop() {
	defer close(w.messages)
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.err = err
			return
		}
		// Only binary messages carry frames
		if messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case w.messages <- data:
		case <-w.done:
			return
		}
	}
}

func (w *WebSocketConnection) Read(p []byte) (int, error) {
	// If we have buffered data, return it first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	var timer <-chan time.Time
	if w.timeout > 0 {
		t := time.NewTimer(w.timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case data, ok := <-w.messages:
		if !ok {
			if w.err != nil {
				glog.V(1).Infof("websocket: %v", w.err)
			}
			return 0, ErrConnectionClosed
		}
		w.buf = data
		w.bufOffset = copy(p, w.buf)
		return w.bufOffset, nil
	case <-timer:
		return 0, nil
	}
}

func (w *WebSocketConnection) Write(p []byte) (int, error) {
	err := w.conn.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketConnection) Close() error {
	w.once.Do(func() { close(w.done) })
	return w.conn.Close()
}

// OpenSerialConnection opens a serial port connection. A positive timeout
// bounds each read.
func OpenSerialConnection(portName string, baudRate int, timeout time.Duration) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}

	if timeout > 0 {
		if err := port.SetReadTimeout(timeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %v", portName, err)
		}
	}

	return &SerialConnection{port: port}, nil
}

// OpenWebSocketConnection opens a WebSocket connection with HTTP Basic auth
func OpenWebSocketConnection(wsURL, username, password string, skipSSLVerify bool, timeout time.Duration) (Connection, error) {
	// Parse and validate URL
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Validate scheme
	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	// Build HTTP headers with Basic auth
	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return newWebSocketConnection(conn, timeout), nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	if pw := os.Getenv("ADCS_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenConnection opens a framed byte stream (serial or WebSocket) based on
// flags. A zero timeout blocks reads indefinitely.
func OpenConnection(timeout time.Duration) (Connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify, timeout)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := OpenSerialConnection(portName, baudRate, timeout)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// OpenLink opens the transport selected by flags and wraps it in the
// matching link. I2C takes precedence over the byte stream transports.
func OpenLink() (adcs.Link, io.Closer, string, error) {
	if i2cBus >= 0 {
		dev, err := adcs.OpenI2C(i2cBus, i2cAddr)
		if err != nil {
			return nil, nil, "", err
		}
		return adcs.NewI2CLink(dev, replyTimeout), dev, fmt.Sprintf("I2C: %s", dev), nil
	}

	if wsURL == "" && portName == "" {
		return nil, nil, "", fmt.Errorf("one of --i2c-bus, --port or --url must be specified")
	}

	conn, info, err := OpenConnection(replyTimeout)
	if err != nil {
		return nil, nil, "", err
	}
	return adcs.NewUARTLink(conn), conn, info, nil
}

// session serializes access to one client. The device handles a single
// exchange at a time, so every caller goes through do.
type session struct {
	mu     sync.Mutex
	client *adcs.Client
	closer io.Closer
	info   string
}

func openSession() (*session, error) {
	link, closer, info, err := OpenLink()
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("connected via %s", info)
	return &session{client: adcs.NewClient(link), closer: closer, info: info}, nil
}

func newSession(client *adcs.Client, info string) *session {
	return &session{client: client, info: info}
}

func (s *session) do(fn func(*adcs.Client) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.client)
}

// stats returns a copy of the exchange counters
func (s *session) stats() adcs.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := *s.client.Stats()
	st.CalculateRates()
	return st
}

// reconnect reopens the link with exponential backoff. Statistics carry
// over to the new client. Returns ctx.Err() if shutdown was requested.
func (s *session) reconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer != nil {
		s.closer.Close()
	}

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		link, closer, info, err := OpenLink()
		if err == nil {
			stats := *s.client.Stats()
			s.client = adcs.NewClient(link)
			*s.client.Stats() = stats
			s.closer, s.info = closer, info
			glog.Infof("reconnected via %s", info)
			return nil
		}
		glog.Warningf("reconnect failed: %v (retry in %s)", err, backoff)

		// Exponential backoff
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// isConnectionLost reports whether err is a transport failure rather than
// a device status or a single bad exchange
func isConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := adcs.StatusOf(err); ok {
		return false
	}
	return !errors.Is(err, adcs.ErrTimeout) &&
		!errors.Is(err, adcs.ErrFrame) &&
		!errors.Is(err, adcs.ErrUnexpectedReply)
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
