package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/brquant/optscreener/internal/cache"
	"github.com/brquant/optscreener/internal/config"
	"github.com/brquant/optscreener/internal/logger"
	"github.com/brquant/optscreener/internal/marketdata"
	"github.com/brquant/optscreener/internal/report"
	"github.com/brquant/optscreener/internal/screener"
)

func main() {
	rest := flag.Bool("rest", false, "run as REST server (screen on demand)")
	port := flag.String("port", ":8080", "REST server listen address")
	outdir := flag.String("out", "reports", "output directory for one-shot runs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	// choose cache backing
	var store cache.Store
	if cfg.Cache.Path != "" {
		store, err = cache.OpenBadgerStore(cfg.Cache.Path)
		if err != nil {
			logger.Errorf("event=cache_open_failed path=%s err=%v", cfg.Cache.Path, err)
			store = nil // memory-only from here on
		} else {
			defer store.Close()
		}
	}
	vc := cache.New(store)

	// choose provider
	var prov marketdata.Provider
	if cfg.Data.StocksURL != "" {
		prov = marketdata.NewSheetProvider(
			cfg.Data.StocksURL, cfg.Data.OptionsURL, cfg.Data.FixedIncomeURL,
			cfg.Data.ETFURL, cfg.Data.BCBBaseURL, cfg.Data.HTTPTimeout)
		logger.Infof("event=provider_selected kind=sheets")
	} else {
		prov = marketdata.NewSyntheticProvider()
		logger.Infof("event=provider_selected kind=synthetic")
	}

	engine := screener.NewEngine(prov, vc, cfg.Screener.Workers, cfg.Screener.FallbackRiskFree)

	if *rest {
		mux := http.NewServeMux()
		mux.HandleFunc("/opportunities", func(w http.ResponseWriter, r *http.Request) {
			logger.Infof("event=screen_requested remote=%s", r.RemoteAddr)
			res := engine.Run()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(res)
		})
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		logger.Infof("event=rest_listening addr=%s", *port)
		log.Fatal(http.ListenAndServe(*port, mux))
		return
	}

	start := time.Now()
	res := engine.Run()
	if err := os.MkdirAll(*outdir, 0755); err != nil {
		log.Fatalf("creating output dir %s: %v", *outdir, err)
	}
	if err := report.WriteJSON(res, *outdir); err != nil {
		logger.Errorf("event=report_write_failed format=json err=%v", err)
	}
	if err := report.WriteCSV(res, *outdir); err != nil {
		logger.Errorf("event=report_write_failed format=csv err=%v", err)
	}
	logger.Infof("event=run_done elapsed=%s cheap=%d expensive=%d out=%s",
		time.Since(start), len(res.Cheap), len(res.Expensive), *outdir)
}
