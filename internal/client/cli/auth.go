package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// On success it loads the directory snapshot and starts the background
// change-feed pump so concurrent edits from other trip members show up
// without a manual refresh. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, userName, string(password)); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	dir := media.NewDirectory(a.client)
	if err := dir.Load(ctx); err != nil {
		log.Printf("Could not load directory: %s", err.Error())
		dir.Close()
		return err
	}

	a.dir = dir
	a.sel = media.NewSelection(dir)
	a.issuer = media.NewShareIssuer(a.client, nil)
	a.userName = userName

	syncer, err := media.StartSync(ctx, a.client, dir, a.logger)
	if err != nil {
		// The library still works without live updates.
		log.Printf("Change feed unavailable: %s", err.Error())
	} else {
		a.syncer = syncer
	}

	log.Printf("Login successful")
	return nil
}

// Logout drops the per-login state and stops the feed pump.
func (a *App) Logout(ctx context.Context) error {
	a.teardownSession(ctx)
	fmt.Println("Logged out.")
	return nil
}
