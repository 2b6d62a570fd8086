package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Daybook (type 'help' for commands)")

	for {
		line, ok := a.readLine("daybook> ")
		if !ok {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: list, show <id>, add, edit <id>, attach <id> <file>, detach <media-id>, delete <id>, reload, exit")
		case "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "add":
			a.add(ctx)
		case "edit":
			a.edit(ctx, args)
		case "attach":
			a.attach(ctx, args)
		case "detach":
			a.detach(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "reload":
			if err := a.collection.Load(ctx); err != nil {
				fmt.Println("reload failed:", err)
			}
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
