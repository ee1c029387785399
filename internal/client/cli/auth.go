package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped
// in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and attempts to
// create a new account. On success the issued token is stored in the
// token file so later invocations stay authenticated.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	res, err := a.client.Register(opCtx, userName, email, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err)
		return err
	}

	a.userName = res.User.Username
	if res.Token != "" {
		if err := a.tokens.Save(res.Token); err != nil {
			log.Printf("could not save token: %s", err)
		}
	}

	fmt.Printf("Registered user %s (id %d)\n", res.User.Username, res.User.ID)
	return nil
}

// Login prompts for credentials and authenticates. On success the
// issued token is stored in the token file.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	res, err := a.client.Login(opCtx, userName, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err)
		return err
	}

	a.userName = res.User.Username
	if err := a.tokens.Save(res.Token); err != nil {
		log.Printf("could not save token: %s", err)
	}

	fmt.Printf("Logged in as %s\n", res.User.Username)
	return nil
}

// Logout drops the session both in the client and on disk.
func (a *App) Logout(ctx context.Context) error {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.client.Logout(opCtx); err != nil {
		log.Printf("Logout: %s", err)
	}
	a.userName = ""
	return a.tokens.Clear()
}

// Status reports whether a saved session token is present.
func (a *App) Status() {
	token := a.client.Token()
	if token == "" {
		fmt.Println("No session token. Use 'login' or 'register' first.")
		return
	}
	fmt.Printf("Token file: %s\n", a.tokens.Path())
	fmt.Printf("Token length: %d characters\n", len(token))
}
