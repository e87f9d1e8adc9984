package main

import (
	protocol "alto-client/protocal"

	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeDevServer()
	if err != nil {
		logrus.Println(err)
	}
}
