package main

import (
	"fmt"
	"os"

	"diskmanager/internal/config"
	"diskmanager/internal/middleware"
	"diskmanager/internal/services"
)

type TokenCommand struct {
	ServerName string `short:"n" long:"server-name" description:"Name of the client the token is issued to" required:"yes"`
}

var tokenCommand = &TokenCommand{}

func (c *TokenCommand) Execute(args []string) error {
	if middleware.NewInputValidator().ValidateServerName(c.ServerName) == false {
		return fmt.Errorf("invalid server name '%s': only letters, digits, '.', '-' and '_' are allowed", c.ServerName)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closer, err := setUpLogger(cfg, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	auth, err := services.NewAuthService(cfg.HTTP.Secret, config.DefaultKeyFile(), cfg.HTTP.TokenExpiry)
	if err != nil {
		return err
	}
	token, err := auth.GenerateToken(c.ServerName)
	if err != nil {
		return fmt.Errorf("could not sign token: %w", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires: %s\n", auth.TokenExpiry().Format("2006-01-02 15:04:05"))
	return nil
}

func init() {
	_, err := parser.AddCommand("token", "generates an API token", "Generates a signed token for the HTTP API", tokenCommand)
	if err != nil {
		panic(err.Error())
	}
}
