package main

import (
	"github.com/plantops/opsboard/cmd/app"
)

func main() {
	app.Run()
}
