package main

import (
	"os"

	"alto-client/internal/adapters/input/cli"
	protocol "alto-client/protocal"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := protocol.Run(); err != nil {
		if !cli.Reported(err) {
			logrus.Errorln(err)
		}
		os.Exit(1)
	}
}
