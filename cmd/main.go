package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"hyperwatch/cmd/serve"
	"hyperwatch/cmd/walletreport"
)

var Version string

func main() {
	SetupLogger()

	app := cli.NewApp()
	app.Name = "Hyperwatch CMD"
	app.Usage = "The Hyperwatch command line interface"

	app.Commands = []cli.Command{
		serveCMD,
		reportCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the Telegram bot service",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the Telegram bot service CMD`,
	}
	reportCMD = cli.Command{
		Name:        "report",
		Usage:       "print a one-shot wallet report",
		Action:      reportAction,
		ArgsUsage:   "<wallet address>",
		Flags:       []cli.Flag{},
		Description: `Print a one-shot wallet report CMD`,
	}
)

func serveAction(_ *cli.Context) error {

	logrus.Info("Starting bot service CMD")
	logrus.WithField("cmd", "serve")

	svc := &serve.Service{}
	err := svc.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func reportAction(c *cli.Context) error {

	logrus.Info("Starting wallet report CMD")
	logrus.WithField("cmd", "report")

	rep := &walletreport.Report{}
	err := rep.Run(c.Args().First())
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
