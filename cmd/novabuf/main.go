package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tuannm99/novabuf/internal"
	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	pages := flag.Int("pages", 0, "Number of pages to write (default: 2x pool size)")
	flag.Parse()

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := internal.NewLogger(cfg, os.Stderr)

	file, err := openFile(cfg)
	if err != nil {
		log.Error("open file", "err", err)
		os.Exit(1)
	}

	bm, err := bufferpool.New(cfg.BufferPool.NumBufs, bufferpool.WithLogger(log))
	if err != nil {
		log.Error("create buffer manager", "err", err)
		os.Exit(1)
	}

	n := *pages
	if n <= 0 {
		n = 2 * cfg.BufferPool.NumBufs
	}
	view := bm.View(file)
	if err := run(log, view, n); err != nil {
		log.Error("workload failed", "err", err)
		os.Exit(1)
	}

	if err := bm.PrintSelf(os.Stdout); err != nil {
		log.Error("print frames", "err", err)
	}
	if err := view.Flush(); err != nil {
		log.Error("flush file", "err", err)
		os.Exit(1)
	}
	st := bm.Stats()
	log.Info("done",
		"hits", st.Hits,
		"misses", st.Misses,
		"evictions", st.Evictions,
		"writebacks", st.WriteBacks,
	)

	if err := bm.Close(); err != nil {
		log.Error("close buffer manager", "err", err)
		os.Exit(1)
	}
}

func openFile(cfg *internal.NovaBufConfig) (storage.File, error) {
	if cfg.Storage.Mode == internal.StorageModeMemory {
		return storage.NewMemFile(cfg.Storage.Base), nil
	}
	return storage.OpenLocalFile(cfg.Storage.Workdir, cfg.Storage.Base)
}

// run writes n pages through the pool and reads them back.
func run(log *slog.Logger, v *bufferpool.FileView, n int) error {
	written := make([]storage.PageNumber, 0, n)
	for i := range n {
		pageNo, h, err := v.AllocPage()
		if err != nil {
			return err
		}
		pg, err := h.Page()
		if err != nil {
			return err
		}
		copy(pg.Data(), fmt.Sprintf("page-%d", i))
		if err := h.Unpin(true); err != nil {
			return err
		}
		written = append(written, pageNo)
	}

	for i, pageNo := range written {
		h, err := v.ReadPage(pageNo)
		if err != nil {
			return err
		}
		pg, err := h.Page()
		if err != nil {
			return err
		}
		want := fmt.Sprintf("page-%d", i)
		if got := string(pg.Data()[:len(want)]); got != want {
			return fmt.Errorf("page %d: got %q, want %q", pageNo, got, want)
		}
		if err := h.Unpin(false); err != nil {
			return err
		}
	}
	log.Debug("workload verified", "pages", len(written))
	return nil
}
