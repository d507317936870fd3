package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/FlorianDenis/Belote/client"
	"github.com/FlorianDenis/Belote/game"
	"github.com/FlorianDenis/Belote/log"
)

var (
	Name    string = "belote-client"
	Version string = "unknown"
)

func main() {
	app := cli.NewApp()
	app.Name = Name
	app.Version = Version
	app.Usage = "terminal client for the online Belote game"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Value: "localhost:4242", Usage: "server address"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Value: "player", Usage: "display name"},
	}
	app.Action = RealMain

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func render(p *game.GameProxy) {
	fmt.Printf("\n=== %s", p.State)
	if p.Trump != game.TrumpUnset {
		fmt.Printf("  trump:%s", p.Trump)
	}
	fmt.Printf("  us:%v them:%v\n", p.OwnPoints, p.TheirPoints)

	fmt.Printf("table: %s (me) | %s | %s | %s\n",
		p.Players[0], p.Players[1], p.Players[2], p.Players[3])
	fmt.Printf("trick: %s | %s | %s | %s\n",
		p.Current[0], p.Current[1], p.Current[2], p.Current[3])

	fmt.Print("hand:  ")
	for i, code := range p.Hand {
		if p.Legal[i] {
			fmt.Printf("[%s] ", code)
		} else {
			fmt.Printf(" %s  ", code)
		}
	}
	fmt.Println()
	fmt.Print("> ")
}

func RealMain(c *cli.Context) error {
	drop := make(chan struct{})

	cl := client.New(client.Options{
		Addr:         c.String("addr"),
		Name:         c.String("name"),
		OnGameStatus: render,
		OnDrop: func() {
			close(drop)
		},
	})
	if err := cl.Connect(); err != nil {
		return err
	}
	defer cl.Close()

	fmt.Println("connected; commands: ready | trump <H|C|D|S|AT|NT> | play <code> | quit")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-drop:
			fmt.Println("connection lost")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handle(cl, line); err != nil {
				log.Warnf("client: %v", err)
			}
		}
	}
}

func handle(cl *client.Client, line string) error {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "ready":
		return cl.Ready()
	case "trump":
		if len(fields) < 2 {
			return fmt.Errorf("usage: trump <H|C|D|S|AT|NT>")
		}
		return cl.PickTrump(game.Trump(strings.ToUpper(fields[1])))
	case "play":
		if len(fields) < 2 {
			return fmt.Errorf("usage: play <code>")
		}
		return cl.PlayCard(strings.ToUpper(fields[1]))
	case "quit":
		cl.Close()
		os.Exit(0)
	}
	return fmt.Errorf("unknown command %q", fields[0])
}
