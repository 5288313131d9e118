package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/e3wins/internal/e3wins/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := e3wins(); err != nil {
		logrus.Fatal(err)
	}
}

func e3wins() error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
