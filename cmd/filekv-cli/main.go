package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/filekv/go-filekv/filekv"
	"github.com/filekv/go-filekv/internal"
	"github.com/filekv/go-filekv/internal/utils"
)

func main() {
	host := flag.String("host", internal.DEFAULT_HOST, "FileKV daemon host")
	port := flag.Int("port", internal.DEFAULT_PORT, "FileKV daemon port")
	flag.Parse()

	client, err := filekv.Connect(filekv.WithHost(*host), filekv.WithPort(*port))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	fmt.Printf("Connected to %v:%d\n", *host, *port)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" {
			return
		}

		cmd, args, err := utils.SplitStringIntoCommandAndArguments(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		resp, err := execute(client, cmd, args)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		fmt.Println(resp)
	}
}

// execute maps a tokenized line onto a client call. Every command except
// ping and help addresses a column, given as its first argument.
func execute(client *filekv.Client, cmd string, args []string) (string, error) {
	if cmd == "ping" || cmd == "help" {
		return client.Execute(cmd, 0, "", "")
	}

	if len(args) == 0 {
		return "", fmt.Errorf("%s needs a column index, see 'help'", cmd)
	}

	col, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return "", fmt.Errorf("bad column index %q", args[0])
	}

	var key, value string
	if len(args) > 1 {
		key = args[1]
	}
	if len(args) > 2 {
		value = args[2]
	}

	return client.Execute(cmd, uint32(col), key, value)
}
