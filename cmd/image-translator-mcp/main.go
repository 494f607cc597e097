package main

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/ironsheep/image-translator-mcp/internal/config"
	"github.com/ironsheep/image-translator-mcp/internal/logging"
	"github.com/ironsheep/image-translator-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-translator-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "binarize":
			if len(os.Args) != 4 {
				fmt.Fprintln(os.Stderr, "Usage: image-translator-mcp binarize <input> <output>")
				os.Exit(2)
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "binarize" {
		if err := runBinarize(cfg, log, os.Args[2], os.Args[3]); err != nil {
			log.Fatal().Err(err).Msg("binarize failed")
		}
		return
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("backend", cfg.Backend).
		Str("ocr_engine", cfg.OCREngine).
		Str("translator", cfg.TranslateProvider).
		Msg("starting image translator MCP server")

	srv, err := server.NewFromConfig(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// runBinarize writes the binarized rendering of the image at in to out.
// The output format follows the extension of out.
func runBinarize(cfg *config.Config, log zerolog.Logger, in, out string) error {
	bin, err := server.NewBinarizer(cfg, log)
	if err != nil {
		return err
	}

	img, err := imaging.Open(in, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	gray, err := bin.Binarize(img)
	if err != nil {
		return err
	}

	if err := imaging.Save(gray, out); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	log.Info().Str("input", in).Str("output", out).Msg("image binarized")
	return nil
}

func printHelp() {
	fmt.Println("image-translator-mcp - MCP server for photo text binarization, OCR and translation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-translator-mcp                          Serve MCP over stdin/stdout")
	fmt.Println("  image-translator-mcp binarize <input> <output> Binarize one image file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  IMAGE_TRANSLATOR_LOG_LEVEL        debug, info, warn, error (default info)")
	fmt.Println("  IMAGE_TRANSLATOR_LOG_FORMAT       console or json (default console)")
	fmt.Println("  IMAGE_TRANSLATOR_BACKEND          native or opencv (default native)")
	fmt.Println("  IMAGE_TRANSLATOR_PARALLEL_PAINT   true to paint regions in parallel")
	fmt.Println("  OCR_ENGINE                        OCR engine name (default tesseract)")
	fmt.Println("  OCR_LANGUAGE                      OCR language code (default eng)")
	fmt.Println("  TRANSLATE_PROVIDER                none or deepl (default none)")
	fmt.Println("  DEEPL_API_KEY                     DeepL authentication key")
	fmt.Println("  DEEPL_API_URL                     DeepL endpoint (default free API)")
	fmt.Println("  TRANSLATE_SOURCE_LANG             source language (default auto)")
	fmt.Println("  TRANSLATE_TARGET_LANG             target language (default fr)")
	fmt.Println("  HTTP_TIMEOUT                      image download and DeepL timeout (default 30s)")
	fmt.Println()
	fmt.Println("Configure the server in your MCP client (e.g., Claude Desktop).")
}
