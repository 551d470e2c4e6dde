package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	optionsFile := flag.String("options", "", "path to options YAML file")
	flag.Parse()

	diag, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer diag.Sync()

	srv, err := web.NewServer(*optionsFile, diag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	diag.Info("punch-cards web bridge listening", zap.String("url", fmt.Sprintf("http://localhost:%d", *port)))
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
