// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// maxLoginAttempts bounds interactive login retries before giving up.
const maxLoginAttempts = 3

// PromptLogin runs the interactive sign-in flow on the terminal before
// the TUI starts. It returns the authenticated user.
func PromptLogin(store *CredentialStore) (*model.User, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if store.DemoMode() {
		fmt.Println("Aetheris (demo mode: any email and password will do)")
	} else {
		fmt.Println("Aetheris sign in")
	}

	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		identifier, err := line.Prompt("Email or username: ")
		if err != nil {
			return nil, err
		}
		identifier = strings.TrimSpace(identifier)

		password, err := readPassword("Password: ")
		if err != nil {
			return nil, err
		}

		user, err := store.Login(identifier, password)
		if errors.Is(err, ErrTOTPRequired) {
			code, perr := line.Prompt("One-time code: ")
			if perr != nil {
				return nil, perr
			}
			user, err = store.LoginTOTP(identifier, password, strings.TrimSpace(code))
		}
		if err == nil {
			return user, nil
		}
		fmt.Println("Sign in failed:", err)
	}

	return nil, ErrInvalidCredentials
}

// PromptRegister runs the interactive account creation flow.
func PromptRegister(store *CredentialStore) (*model.User, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	username, err := line.Prompt("Username: ")
	if err != nil {
		return nil, err
	}
	email, err := line.Prompt("Email: ")
	if err != nil {
		return nil, err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, errors.New("passwords do not match")
	}

	return store.Register(strings.TrimSpace(username), strings.TrimSpace(email), password)
}

// readPassword reads a line from stdin without echo.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input (tests, scripts) falls back to a plain read.
		var password string
		if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
			return "", err
		}
		return password, nil
	}

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
