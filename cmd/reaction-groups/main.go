package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/JohnathanALves/reaction/cmd"
)

type options struct {
	Migrate       cmd.MigrateCommand       `command:"migrate" description:"Apply, roll back, or verify schema migrations"`
	ProvisionShop cmd.ProvisionShopCommand `command:"provision-shop" description:"Create a shop's default group and register it as the removal fallback"`
}

func main() {
	parserOpts := &options{}
	parser := flags.NewParser(parserOpts, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		os.Exit(1)
	}
}
