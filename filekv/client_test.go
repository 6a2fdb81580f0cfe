package filekv_test

import (
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/filekv/go-filekv/filekv"
	"github.com/filekv/go-filekv/internal/protocol"
)

func startTestServer(t *testing.T) (addr string, shutdown func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start listener: %v", err)
	}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			cmd, err := protocol.DecodeCommand(conn)
			if err != nil {
				return
			}

			var resp string

			switch strings.ToLower(cmd.Cmd) {
			case "ping":
				resp = "PONG!"
			case "set":
				resp = "ok"
			case "get":
				resp = "value:" + string(cmd.Key)
			case "getprefix":
				resp = "prefixed:" + string(cmd.Key)
			case "delete", "delprefix":
				resp = "ok"
			case "exists":
				resp = "true"
			case "count":
				resp = strconv.FormatUint(uint64(cmd.Col), 10)
			case "list":
				resp = "\"a\"\n\"b\"\n\"c\""
			default:
				resp = "error"
			}

			encoded, _ := protocol.EncodeResponse(resp)
			_, _ = conn.Write(encoded)
		}
	}()

	return ln.Addr().String(), func() {
		_ = ln.Close()
	}
}

func connect(t *testing.T, addr string) *filekv.Client {
	t.Helper()

	host, portStr, _ := net.SplitHostPort(addr)
	port, _ := strconv.Atoi(portStr)

	client, err := filekv.Connect(
		filekv.WithHost(host),
		filekv.WithPort(port),
	)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestConnect(t *testing.T) {
	addr, shutdown := startTestServer(t)
	defer shutdown()

	connect(t, addr)
}

func TestClientCommands(t *testing.T) {
	addr, shutdown := startTestServer(t)
	defer shutdown()

	client := connect(t, addr)

	if resp, err := client.PING(); err != nil || resp != "PONG!" {
		t.Fatalf("PING: %q, %v", resp, err)
	}
	if resp, err := client.SET(0, "k", "v"); err != nil || resp != "ok" {
		t.Fatalf("SET: %q, %v", resp, err)
	}
	if resp, err := client.GET(0, "k"); err != nil || resp != "value:k" {
		t.Fatalf("GET: %q, %v", resp, err)
	}
	if resp, err := client.GETPREFIX(0, "pre"); err != nil || resp != "prefixed:pre" {
		t.Fatalf("GETPREFIX: %q, %v", resp, err)
	}
	if resp, err := client.DELETE(0, "k"); err != nil || resp != "ok" {
		t.Fatalf("DELETE: %q, %v", resp, err)
	}
	if resp, err := client.DELPREFIX(0, "pre"); err != nil || resp != "ok" {
		t.Fatalf("DELPREFIX: %q, %v", resp, err)
	}
	if resp, err := client.EXISTS(0, "k"); err != nil || resp != "true" {
		t.Fatalf("EXISTS: %q, %v", resp, err)
	}
	if resp, err := client.COUNT(9); err != nil || resp != "9" {
		t.Fatalf("COUNT did not carry the column index: %q, %v", resp, err)
	}
	if resp, err := client.LIST(0); err != nil || resp == "" {
		t.Fatalf("LIST: %q, %v", resp, err)
	}
}

func TestConnectFailsWithoutServer(t *testing.T) {
	if _, err := filekv.Connect(filekv.WithPort(1)); err == nil {
		t.Fatal("expected dial error with nothing listening")
	}
}

func TestConnectRetriesUntilServerIsUp(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	addr := ln.Addr().String()
	host, portStr, _ := net.SplitHostPort(addr)
	port, _ := strconv.Atoi(portStr)

	// Free the port, then bring a listener back after a delay.
	ln.Close()

	ready := make(chan net.Listener, 1)
	go func() {
		time.Sleep(200 * time.Millisecond)
		late, err := net.Listen("tcp", addr)
		if err != nil {
			return
		}
		ready <- late
	}()

	client, err := filekv.Connect(
		filekv.WithHost(host),
		filekv.WithPort(port),
		filekv.WithDialRetries(20),
	)
	if err != nil {
		t.Fatalf("Connect did not retry until the server came up: %v", err)
	}
	client.Close()

	select {
	case late := <-ready:
		late.Close()
	case <-time.After(time.Second):
	}
}
