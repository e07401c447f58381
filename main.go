package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"hpackcodec/internal/config"
	"hpackcodec/internal/inspect"
	"hpackcodec/internal/logging"
)

func main() {
	var configFile = flag.String("config", "", "config file")
	var decodeHex = flag.String("decode", "", "decode a hex header block and exit")
	var serve = flag.Bool("serve", false, "run the HTTP inspector")

	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			panic(fmt.Errorf("failed to load config: %v", err))
		}
		cfg = loaded
	}

	logger, err := logging.NewDefaultLogger(logging.ParseLevel(cfg.Logger.Level), cfg.Logger.File)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %v", err))
	}

	switch {
	case *decodeHex != "":
		block, err := hex.DecodeString(*decodeHex)
		if err != nil {
			logger.Log(logging.LogLevelError, "invalid hex block: %s", err)
			os.Exit(1)
		}
		headers, err := inspect.DecodeBlock(block, cfg.TableSize(), cfg.Codec.MaxHeadersLength, cfg.Encoding())
		if err != nil {
			logger.Log(logging.LogLevelError, "decode failed: %s", err)
			os.Exit(1)
		}
		inspect.Dump(os.Stdout, headers)

	case *serve:
		server := &inspect.Server{
			TableSize:  cfg.TableSize(),
			MaxHeaders: cfg.Codec.MaxHeadersLength,
			Encoding:   cfg.Encoding(),
			Logger:     logger,
		}
		if err := server.ListenAndServe(cfg.Server.Port); err != nil {
			logger.Log(logging.LogLevelError, "inspector failed: %s", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass -decode <hex> or -serve")
		flag.Usage()
		os.Exit(2)
	}
}
