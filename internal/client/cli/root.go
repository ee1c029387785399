package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s = s + a.client.Transport().String()
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the blog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("blog %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: create, get <id>, update <id>, delete <id>, list [limit] [offset], status, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, get <id>, list [limit] [offset], status, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "status":
			a.Status()
		case "create":
			a.createPost(ctx)
		case "get":
			a.getPost(ctx, args)
		case "update":
			a.updatePost(ctx, args)
		case "delete":
			a.deletePost(ctx, args)
		case "list":
			a.listPosts(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
