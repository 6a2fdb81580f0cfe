package protocol_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/filekv/go-filekv/internal/protocol"
)

func TestEncodeDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		col  uint32
		key  []byte
		val  []byte
	}{
		{"SET command", "set", 0, []byte("foo"), []byte("bar")},
		{"GET command", "get", 2, []byte("hello"), nil},
		{"COUNT command", "count", 7, nil, nil},
		{"empty key and value", "ping", 0, nil, nil},
		{"value with spaces", "set", 1, []byte("city"), []byte("new york")},
		{"binary key", "get", 0, []byte{0x00, 0xff, 0x10}, nil},
		{"unicode value", "set", 3, []byte("emoji"), []byte("🚀🔥")},
		{"large value", "set", 0, []byte("big"), make([]byte, 1024)},
		{"max column", "delprefix", ^uint32(0), []byte("a"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			payload, err := protocol.EncodeCommand(tt.cmd, tt.col, tt.key, tt.val)
			if err != nil {
				t.Fatalf("EncodeCommand failed: %v", err)
			}

			go func() {
				_, _ = client.Write(payload)
			}()

			cmd, err := protocol.DecodeCommand(server)
			if err != nil {
				t.Fatalf("DecodeCommand failed: %v", err)
			}

			if cmd.Cmd != tt.cmd {
				t.Errorf("Cmd mismatch: got %q, want %q", cmd.Cmd, tt.cmd)
			}
			if cmd.Col != tt.col {
				t.Errorf("Col mismatch: got %d, want %d", cmd.Col, tt.col)
			}
			if !bytes.Equal(cmd.Key, tt.key) {
				t.Errorf("Key mismatch: got %x, want %x", cmd.Key, tt.key)
			}
			if !bytes.Equal(cmd.Val, tt.val) {
				t.Errorf("Val mismatch: got %x, want %x", cmd.Val, tt.val)
			}
		})
	}
}

func TestDecodeCommand_TruncatedPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload, err := protocol.EncodeCommand("set", 0, []byte("key"), []byte("value"))
	if err != nil {
		t.Fatalf("EncodeCommand failed: %v", err)
	}

	// Write only part of the payload
	go func() {
		_, _ = client.Write(payload[:len(payload)/2])
		client.Close()
	}()

	if _, err := protocol.DecodeCommand(server); err == nil {
		t.Fatalf("expected error on truncated payload, got nil")
	}
}

func TestDecodeCommand_BlocksUntilComplete(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload, err := protocol.EncodeCommand("get", 1, []byte("foo"), nil)
	if err != nil {
		t.Fatalf("EncodeCommand failed: %v", err)
	}

	done := make(chan struct{})

	go func() {
		_, _ = protocol.DecodeCommand(server)
		close(done)
	}()

	// Ensure decoder is blocked
	select {
	case <-done:
		t.Fatal("DecodeCommand returned early")
	case <-time.After(50 * time.Millisecond):
	}

	_, _ = client.Write(payload)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("DecodeCommand did not return after full payload")
	}
}
