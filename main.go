package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ioremap/blobnode/internal/blob"
	"github.com/ioremap/blobnode/internal/config"
	"github.com/ioremap/blobnode/internal/dispatch"
	"github.com/ioremap/blobnode/internal/logging"
	"github.com/ioremap/blobnode/internal/node"
	"github.com/ioremap/blobnode/internal/shared"
)

func main() {
	app := &cli.App{
		Name:  "blobnoded",
		Usage: "run a single blob storage node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "path to the node's YAML config file",
				Required: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "blobnoded: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	file, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(file.Log)
	if err != nil {
		level = logrus.InfoLevel
	}
	log := logging.NewLogrus(level)

	var cfg blob.Config
	if err := blob.Apply(&cfg, file.Blob); err != nil {
		return err
	}

	n, err := node.Open(cfg, log)
	if err != nil {
		return err
	}
	defer n.Close()

	log.Log(logging.LevelNotice, "blobnoded: ready, data=%s history=%s", cfg.DataPath, cfg.HistoryPath)

	var id shared.ObjectID
	copy(id[:], []byte("startup-probe"))
	payload := []byte("blobnoded is alive")

	_, err = dispatch.Dispatch(n, dispatch.Command{Cmd: dispatch.CmdWrite}, dispatch.Attr{},
		dispatch.IOAttr{ID: id, Size: uint64(len(payload)), Flags: shared.FlagNoHistoryUpdate}, payload)
	if err != nil {
		return err
	}

	reply, err := dispatch.Dispatch(n, dispatch.Command{Cmd: dispatch.CmdRead}, dispatch.Attr{},
		dispatch.IOAttr{ID: id}, nil)
	if err != nil {
		return err
	}

	log.Log(logging.LevelNotice, "blobnoded: startup probe round-trip: %q", string(reply.Payload))
	return nil
}
