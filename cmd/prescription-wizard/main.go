package main

import (
	"github.com/tidepool-org/prescription-wizard/worker"
)

func main() {
	worker.New().Run()
}
