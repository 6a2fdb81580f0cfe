package core

import (
	"context"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/phuslu/log"

	"github.com/filekv/go-filekv/internal/lock"
	"github.com/filekv/go-filekv/internal/protocol"
	"github.com/filekv/go-filekv/internal/server"
	"github.com/filekv/go-filekv/internal/utils"
)

// Daemon serves a FileKV store over TCP.
//
// Connections are handled on separate goroutines, so the daemon guards
// the store with a mutex; the store itself stays lock-free. A LOCK file
// in the store root keeps a second daemon from opening the same
// directory.
type Daemon struct {
	db           *FileKV
	lockFile     *os.File
	serverCancel context.CancelFunc

	mu sync.Mutex // serializes access to db

	DirectoryPath string
	NumColumns    uint32
	ListenerPort  int
}

func (d *Daemon) Start() error {
	if d.NumColumns == 0 {
		d.NumColumns = DefaultNumColumns
	}

	if !utils.PathExists(d.DirectoryPath) {
		if err := os.MkdirAll(d.DirectoryPath, DirPerm); err != nil {
			log.Error().Err(err).Str("dir", d.DirectoryPath).Msg("error creating store directory")
			return err
		}
	}

	lf, err := lock.LockDirectory(d.DirectoryPath)
	if err != nil {
		log.Error().Err(err).Str("dir", d.DirectoryPath).Msg("error locking store directory")
		return err
	}
	d.lockFile = lf

	db, err := Open(d.DirectoryPath, d.NumColumns)
	if err != nil {
		lock.UnlockDirectory(lf)
		d.lockFile = nil
		log.Error().Err(err).Str("dir", d.DirectoryPath).Msg("error opening store")
		return err
	}
	d.db = db

	ctx, cancel := context.WithCancel(context.Background())
	d.serverCancel = cancel
	go func() {
		if err := server.Start(ctx, d.ListenerPort, d.commandHandler); err != nil {
			log.Error().Err(err).Msg("server stopped abruptly")
			panic(err)
		}
	}()

	log.Info().
		Str("dir", d.DirectoryPath).
		Uint32("cols", d.NumColumns).
		Int("port", d.ListenerPort).
		Msg("filekv daemon started")

	return nil
}

func (d *Daemon) Stop() {
	if d.serverCancel != nil {
		d.serverCancel()
	}

	if d.lockFile != nil {
		lock.UnlockDirectory(d.lockFile)
		d.lockFile = nil
	}
}

func (d *Daemon) commandHandler(conn net.Conn) {
	defer conn.Close()

	for {
		command, err := protocol.DecodeCommand(conn)
		if err != nil {
			log.Debug().Msg("client disconnected")
			return
		}

		d.handleCommand(command, conn)
	}
}

func (d *Daemon) handleCommand(command *protocol.Command, conn net.Conn) {
	cmd := strings.ToLower(command.Cmd)

	switch cmd {
	case "ping":
		d.handleCommandPing(conn)
	case "set":
		d.handleCommandSET(conn, command.Col, command.Key, command.Val)
	case "get":
		d.handleCommandGET(conn, command.Col, command.Key)
	case "getprefix":
		d.handleCommandGETPREFIX(conn, command.Col, command.Key)
	case "delete":
		d.handleCommandDelete(conn, command.Col, command.Key)
	case "delprefix":
		d.handleCommandDelPrefix(conn, command.Col, command.Key)
	case "exists":
		d.handleCommandExists(conn, command.Col, command.Key)
	case "count":
		d.handleCommandCount(conn, command.Col)
	case "list":
		d.handleCommandList(conn, command.Col)
	case "help":
		d.handleCommandHelp(conn)
	default:
		d.handleInvalidCommand(conn)
	}
}

func (d *Daemon) handleCommandPing(conn net.Conn) {
	d.reply(conn, "PONG!")
}

func (d *Daemon) handleCommandSET(conn net.Conn, col uint32, key, value []byte) {
	tx := NewTransaction()
	tx.Put(col, key, value)

	d.mu.Lock()
	err := d.db.Write(tx)
	d.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("error while setting value")
		d.reply(conn, "Error while setting value")
		return
	}

	d.reply(conn, "ok")
}

func (d *Daemon) handleCommandGET(conn net.Conn, col uint32, key []byte) {
	d.mu.Lock()
	value, ok, err := d.db.Get(col, key)
	d.mu.Unlock()

	if err != nil {
		d.reply(conn, "Error: "+err.Error())
		return
	}

	if !ok {
		d.reply(conn, "nil")
		return
	}

	d.reply(conn, string(value))
}

func (d *Daemon) handleCommandGETPREFIX(conn net.Conn, col uint32, prefix []byte) {
	d.mu.Lock()
	value, ok, err := d.db.GetByPrefix(col, prefix)
	d.mu.Unlock()

	if err != nil {
		d.reply(conn, "Error: "+err.Error())
		return
	}

	if !ok {
		d.reply(conn, "nil")
		return
	}

	d.reply(conn, string(value))
}

func (d *Daemon) handleCommandDelete(conn net.Conn, col uint32, key []byte) {
	tx := NewTransaction()
	tx.Delete(col, key)

	d.mu.Lock()
	err := d.db.Write(tx)
	d.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("error while deleting value")
		d.reply(conn, "Error while deleting value")
		return
	}

	d.reply(conn, "ok")
}

func (d *Daemon) handleCommandDelPrefix(conn net.Conn, col uint32, prefix []byte) {
	tx := NewTransaction()
	tx.DeletePrefix(col, prefix)

	d.mu.Lock()
	err := d.db.Write(tx)
	d.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("error while deleting prefix")
		d.reply(conn, "Error while deleting prefix")
		return
	}

	d.reply(conn, "ok")
}

func (d *Daemon) handleCommandExists(conn net.Conn, col uint32, key []byte) {
	d.mu.Lock()
	_, ok, err := d.db.Get(col, key)
	d.mu.Unlock()

	if err != nil {
		d.reply(conn, "Error: "+err.Error())
		return
	}

	if !ok {
		d.reply(conn, "false")
		return
	}

	d.reply(conn, "true")
}

func (d *Daemon) handleCommandCount(conn net.Conn, col uint32) {
	d.mu.Lock()
	entries, err := d.db.Iter(col)
	d.mu.Unlock()

	if err != nil {
		d.reply(conn, "Error: "+err.Error())
		return
	}

	d.reply(conn, strconv.Itoa(len(entries)))
}

func (d *Daemon) handleCommandList(conn net.Conn, col uint32) {
	var keyList string

	d.mu.Lock()
	entries, err := d.db.Iter(col)
	d.mu.Unlock()

	if err != nil {
		d.reply(conn, "Error: "+err.Error())
		return
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, strconv.Quote(string(entry.Key)))
	}

	if len(keys) > 0 {
		keyList = "----- KEYS START -----\n" + strings.Join(keys, "\n") + "\n----- KEYS END -----"
	} else {
		keyList = "nil"
	}

	d.reply(conn, keyList)
}

func (d *Daemon) handleCommandHelp(conn net.Conn) {
	helpString := `
Available Commands:

PING
  Check if the daemon is alive.
  Response: PONG!

SET <col> <key> <value>
  Store a value for the given key in a column.
  Overwrites the value if the key already exists.
  Response: ok

GET <col> <key>
  Retrieve the value associated with the key.
  Response: value | nil

GETPREFIX <col> <prefix>
  Retrieve the value of the first key starting with the prefix.
  Response: value | nil

DELETE <col> <key>
  Delete the key and its value. Deleting a missing key is a no-op.
  Response: ok

DELPREFIX <col> <prefix>
  Delete every key starting with the prefix.
  An empty prefix clears the whole column.
  Response: ok

EXISTS <col> <key>
  Check if a key exists.
  Response: true | false

COUNT <col>
  Return the total number of keys stored in a column.
  Response: integer

LIST <col>
  List all stored keys in a column.
  Response: list of keys | nil

HELP (cli only)
  Show this help message.

EXIT (cli only)
  Close the client connection.
`

	d.reply(conn, strings.TrimSpace(helpString))
}

func (d *Daemon) handleInvalidCommand(conn net.Conn) {
	d.reply(conn, "Invalid Command")
}

func (d *Daemon) reply(conn net.Conn, msg string) {
	encodedResponse, err := protocol.EncodeResponse(msg)
	if err != nil {
		log.Error().Err(err).Msg("error encoding response")
		return
	}

	_, err = conn.Write(encodedResponse)
	if err != nil {
		log.Debug().Msg("client disconnected")
	}
}
