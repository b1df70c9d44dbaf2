package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pdf-translator/internal/config"
	"pdf-translator/internal/engine"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/store"
	"pdf-translator/internal/translator"
)

func main() {
	var (
		srcLang    = flag.String("src", "", "source language code (default from config, \"auto\" for detection)")
		targetLang = flag.String("target", "", "target language code (default from config)")
		dbPath     = flag.String("db", "", "element database path (default from config)")
		cacheDir   = flag.String("cache-dir", "", "translation cache directory (default from config)")
		backend    = flag.String("translator", "", "translator backend: baidu or openai (default from config)")
		output     = flag.String("o", "", "write translated text to file instead of stdout")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pdftrans [options] <input.pdf>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	pdfPath := flag.Arg(0)

	cm, err := config.NewConfigManager("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to locate config: %v\n", err)
		os.Exit(1)
	}
	if err := cm.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := cm.GetConfig()

	if err := logger.Init(logger.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if *srcLang == "" {
		*srcLang = cfg.DefaultSrcLang
	}
	if *targetLang == "" {
		*targetLang = cfg.DefaultTargetLang
	}
	if *dbPath == "" {
		*dbPath = cm.GetDatabasePath()
	}
	if *cacheDir == "" {
		*cacheDir = cm.GetCacheDir()
	}
	if *backend == "" {
		*backend = cfg.DefaultTranslator
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open element store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	eng := engine.NewEngine(st, *cacheDir)

	baidu := translator.NewBaiduTranslator()
	baidu.Configure(map[string]string{
		"appId":     cm.GetBaiduAppID(),
		"secretKey": cm.GetBaiduSecretKey(),
	})
	eng.RegisterTranslator(baidu)

	openai := translator.NewOpenAITranslator()
	openai.Configure(map[string]string{
		"apiKey":  cm.GetOpenAIAPIKey(),
		"baseURL": cm.GetOpenAIBaseURL(),
		"model":   cm.GetOpenAIModel(),
	})
	eng.RegisterTranslator(openai)

	if *backend != "" {
		if err := eng.SetCurrentTranslator(*backend); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (available: %v)\n", err, eng.GetAvailableTranslators())
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Translating %s (%s -> %s)\n", pdfPath, *srcLang, *targetLang)
	result, err := eng.TranslatePDF(ctx, pdfPath, *srcLang, *targetLang, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rPage %d/%d", done, total)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
		return
	}
	fmt.Println(result)
}
