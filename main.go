package main

import (
	"context"
	"os"

	"github.com/conneroisu/jsconvert/cmd"
)

func main() {
	os.Exit(cmd.Execute(context.Background()))
}
