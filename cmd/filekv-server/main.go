package main

import (
	"github.com/phuslu/log"

	"github.com/filekv/go-filekv/core"
	"github.com/filekv/go-filekv/internal/utils"
)

func main() {
	dirPath, numColumns, port := utils.HandleCLIInputs()

	daemon := core.Daemon{
		DirectoryPath: *dirPath,
		NumColumns:    uint32(*numColumns),
		ListenerPort:  *port,
	}

	defer daemon.Stop()
	if err := daemon.Start(); err != nil {
		log.Error().Err(err).Msg("error while starting")
		return
	}

	utils.ListenForProcessInterruptOrKill()
}
