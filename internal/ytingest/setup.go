package ytingest

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v2"
	yt "mkuznets.com/go/ytingest/internal/youtube"
)

type SetupCommand struct {
	Command
}

func (cmd *SetupCommand) Execute([]string) error {
	client := cmd.Config.Youtube.OAuthClient
	if client.ID == "" || client.Secret == "" {
		return errors.New("`youtube.oauth_client.{id, secret}` are required for setup")
	}

	token, err := yt.NewToken(cmd.Ctx, yt.NewOAuthConfig(client.ID, client.Secret))
	if err != nil {
		return err
	}
	return printCreds(token)
}

func printCreds(token *oauth2.Token) error {
	cfg := struct {
		Youtube struct {
			OAuth *OAuth `yaml:"oauth"`
		} `yaml:"youtube"`
	}{}
	cfg.Youtube.OAuth = NewCredentials(token)

	m, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Print("Add the following to the config file:\n\n")
	fmt.Println(string(m))

	return nil
}
