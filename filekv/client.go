package filekv

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/filekv/go-filekv/internal"
	"github.com/filekv/go-filekv/internal/protocol"
)

type Client struct {
	conn net.Conn
}

func Connect(opts ...Option) (*Client, error) {
	cfg := internal.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var conn net.Conn
	backoff := retry.WithMaxRetries(uint64(cfg.DialRetries), retry.NewFibonacci(50*time.Millisecond))

	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		var err error
		conn, err = net.Dial("tcp", addr)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func (c *Client) PING() (string, error) {
	return c.sendCommand("ping", 0, "", "")
}

func (c *Client) SET(col uint32, key, value string) (string, error) {
	return c.sendCommand("set", col, key, value)
}

func (c *Client) GET(col uint32, key string) (string, error) {
	return c.sendCommand("get", col, key, "")
}

func (c *Client) GETPREFIX(col uint32, prefix string) (string, error) {
	return c.sendCommand("getprefix", col, prefix, "")
}

func (c *Client) DELETE(col uint32, key string) (string, error) {
	return c.sendCommand("delete", col, key, "")
}

func (c *Client) DELPREFIX(col uint32, prefix string) (string, error) {
	return c.sendCommand("delprefix", col, prefix, "")
}

func (c *Client) EXISTS(col uint32, key string) (string, error) {
	return c.sendCommand("exists", col, key, "")
}

func (c *Client) COUNT(col uint32) (string, error) {
	return c.sendCommand("count", col, "", "")
}

func (c *Client) LIST(col uint32) (string, error) {
	return c.sendCommand("list", col, "", "")
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Execute(cmd string, col uint32, key, value string) (string, error) {
	return c.sendCommand(cmd, col, key, value)
}

func (c *Client) sendCommand(cmd string, col uint32, key, value string) (string, error) {
	payload, err := protocol.EncodeCommand(cmd, col, []byte(key), []byte(value))
	if err != nil {
		return "", err
	}

	_, err = c.conn.Write(payload)
	if err != nil {
		return "", err
	}

	response, err := protocol.DecodeResponse(c.conn)
	if err != nil {
		return "", err
	}

	return response, nil
}
