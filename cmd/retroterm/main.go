// Command retroterm starts the websocket bridge server: it loads
// config.json (falling back to defaults), builds the curated BBS directory
// and capture subsystem, and serves the browser frontend and API.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/wxmodem/retroterm/internal/bbsdir"
	"github.com/wxmodem/retroterm/internal/capture"
	"github.com/wxmodem/retroterm/internal/config"
	"github.com/wxmodem/retroterm/internal/server"
)

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		log.Printf("warning: could not load config.json: %v", err)
		log.Println("using default configuration")
		cfg = config.Default()
	}

	bbsCSVPath := "bbs.csv"
	var dir *bbsdir.Cache
	if _, err := os.Stat(bbsCSVPath); err == nil {
		dir = bbsdir.NewCache(bbsCSVPath)
	} else {
		log.Printf("warning: %s not found, BBS directory will be empty", bbsCSVPath)
	}

	captureDir := os.Getenv("CAPTURE_DIR")
	if captureDir == "" {
		captureDir = "captures"
	}
	os.MkdirAll(captureDir, 0755)

	var capIndex *capture.Index
	if idx, err := capture.OpenIndex(captureDir + "/index.db"); err != nil {
		log.Printf("warning: capture index unavailable: %v", err)
	} else {
		capIndex = idx
	}
	capManager := capture.NewManager(captureDir, capIndex)

	hub := server.NewHub(cfg, dir, capManager, bbsCSVPath)

	mux := http.NewServeMux()
	hub.Routes(mux, "./static")

	port := cfg.Server.Port
	fmt.Printf("Server starting on :%d\n", port)
	if cfg.Proxy.Enabled {
		if cfg.Proxy.Type == "tor" {
			fmt.Printf("Tor proxy: %s:%d (anonymized connections)\n", cfg.Proxy.Host, cfg.Proxy.Port)
		} else {
			fmt.Printf("SOCKS5 proxy: %s:%d\n", cfg.Proxy.Host, cfg.Proxy.Port)
		}
	} else {
		fmt.Println("Proxy: disabled (direct connections)")
	}

	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
}
