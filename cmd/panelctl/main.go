package main

import (
	"github.com/robotalks/radiopanel/pkg/cli/sh"
	env "github.com/robotalks/radiopanel/pkg/l1/env/connector"

	_ "github.com/robotalks/radiopanel/pkg/cli/cmds/panel"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
