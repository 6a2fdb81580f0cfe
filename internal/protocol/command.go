package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
)

// Command represents a decoded client command received by the FileKV
// daemon.
//
// A Command consists of a command name (Cmd), the column index it
// targets, and optional key and value payloads. The meaning of Key and
// Val depends on the command type: for prefix commands Key carries the
// prefix, and for SET Val carries the value to store.
type Command struct {
	Cmd string // Command name (e.g. "get", "set", "delprefix")
	Col uint32 // Column index the command targets
	Key []byte // Key or prefix argument (may be empty)
	Val []byte // Value argument (may be empty)
}

// EncodeCommand serializes a client command into its wire format.
//
// The command is encoded as:
//
//	<cmd_len:uint8><col:uint32><key_len:uint32><val_len:uint32><cmd><key><val>
//
// All integer fields are encoded using big-endian byte order.
// The command name length is limited to 255 bytes; keys and values are
// binary-safe.
//
// The returned byte slice is suitable for writing directly to a TCP
// connection.
func EncodeCommand(cmd string, col uint32, key, val []byte) ([]byte, error) {
	cmdB := []byte(cmd)

	buf := &bytes.Buffer{}

	buf.WriteByte(uint8(len(cmdB)))
	if err := binary.Write(buf, binary.BigEndian, col); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(key))); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(val))); err != nil {
		return nil, err
	}

	buf.Write(cmdB)
	buf.Write(key)
	buf.Write(val)

	return buf.Bytes(), nil
}

// DecodeCommand reads and decodes a command from a TCP connection.
//
// It first reads the fixed-size header fields, then reads the command
// name, key, and value payloads in sequence.
//
// DecodeCommand blocks until the full command has been read or an
// error occurs. A successfully decoded Command is returned on success.
func DecodeCommand(conn net.Conn) (*Command, error) {
	var cmdLen uint8
	var col uint32
	var keyLen uint32
	var valLen uint32

	// Read the header
	if err := binary.Read(conn, binary.BigEndian, &cmdLen); err != nil {
		return nil, err
	}
	if err := binary.Read(conn, binary.BigEndian, &col); err != nil {
		return nil, err
	}
	if err := binary.Read(conn, binary.BigEndian, &keyLen); err != nil {
		return nil, err
	}
	if err := binary.Read(conn, binary.BigEndian, &valLen); err != nil {
		return nil, err
	}

	// Read payload
	cmdB := make([]byte, cmdLen)
	keyB := make([]byte, keyLen)
	valB := make([]byte, valLen)

	if _, err := io.ReadFull(conn, cmdB); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(conn, keyB); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(conn, valB); err != nil {
		return nil, err
	}

	return &Command{
		Cmd: string(cmdB),
		Col: col,
		Key: keyB,
		Val: valB,
	}, nil
}
