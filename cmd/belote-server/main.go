package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/FlorianDenis/Belote/config"
	"github.com/FlorianDenis/Belote/log"
	"github.com/FlorianDenis/Belote/server"
	"github.com/FlorianDenis/Belote/utils/signal"
)

var (
	Name    string = "belote-server"
	Version string = "unknown"
)

func main() {
	app := cli.NewApp()
	app.Name = Name
	app.Version = Version
	app.Usage = "authoritative server for the online Belote game"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to yaml config file"},
		&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "tcp listen address, overrides config"},
		&cli.StringFlag{Name: "ws-listen", Usage: "websocket listen address, overrides config"},
	}
	app.Action = RealMain

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func RealMain(c *cli.Context) error {
	conf, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if addr := c.String("listen"); addr != "" {
		conf.TcpListenAddr = addr
	}
	if addr := c.String("ws-listen"); addr != "" {
		conf.WsListenAddr = addr
	}

	log.SetLevel(conf.LogLevel)
	if conf.LogFile != "" {
		log.SetFile(conf.LogFile)
	}

	svr := server.New(server.Options{
		TCPAddr:       conf.TcpListenAddr,
		WSAddr:        conf.WsListenAddr,
		TrickDelay:    conf.TrickDelay,
		RoundDelay:    conf.RoundDelay,
		RequireReady:  conf.RequireReady,
		AllowVariants: conf.AllowVariants,
	})
	if err := svr.Start(); err != nil {
		return err
	}
	defer svr.Stop()

	sig := signal.WaitShutdown()
	log.Infof("%s: received %v, shutting down", Name, sig)
	return nil
}
