package utils

import (
	"errors"
	"flag"
	"strings"

	"github.com/kballard/go-shellquote"
)

const DefaultDirectoryPath = "./"
const DefaultNumColumns = 1
const DefaultPort = 7401

func HandleCLIInputs() (*string, *uint, *int) {
	directoryPath := flag.String("dir", DefaultDirectoryPath, "Directory Path to be used for this instance")
	numColumns := flag.Uint("cols", DefaultNumColumns, "Number of key columns")
	port := flag.Int("port", DefaultPort, "Port to use for the TCP Server")
	flag.Parse()

	return directoryPath, numColumns, port
}

// SplitStringIntoCommandAndArguments tokenizes an interactive input line
// into a lowercase command name and its arguments. Tokens follow shell
// quoting rules, so keys and values containing spaces can be quoted.
func SplitStringIntoCommandAndArguments(line string) (string, []string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", nil, err
	}

	if len(words) == 0 {
		return "", nil, errors.New("empty command")
	}

	return strings.ToLower(words[0]), words[1:], nil
}
