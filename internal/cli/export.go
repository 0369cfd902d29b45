package cli

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
	"github.com/pfrederiksen/parkrun-stats/internal/export"
	"github.com/pfrederiksen/parkrun-stats/internal/logger"
	"github.com/pfrederiksen/parkrun-stats/internal/storage"
)

// exportTarget is one export format and where it goes.
type exportTarget struct {
	ext   string
	path  string
	write func(io.Writer, *event.Summary) error
}

// export writes every requested file. Formats given an explicit path go
// there; with an export directory the rest go into it as well.
func (a *app) export(summary *event.Summary) error {
	targets := []exportTarget{
		{ext: "csv", path: a.opts.csvPath, write: func(w io.Writer, s *event.Summary) error { return export.WriteCSV(w, s.Events) }},
		{ext: "xlsx", path: a.opts.xlsxPath, write: export.WriteXLSX},
		{ext: "pdf", path: a.opts.pdfPath, write: export.WritePDF},
		{ext: "docx", path: a.opts.docxPath, write: export.WriteDOCX},
	}

	var store *storage.Storage
	if a.cfg.Export.Dir != "" {
		var err error
		if store, err = storage.New(a.cfg.Export.Dir); err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	for _, t := range targets {
		write := func(w io.Writer) error { return t.write(w, summary) }

		var (
			path string
			err  error
		)
		switch {
		case t.path != "":
			path = t.path
			err = storage.WriteFile(path, write)
		case store != nil:
			path, err = store.Write(summary.Title, t.ext, write)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("exporting %s: %w", t.ext, err)
		}
		logger.IncrCounter("export." + t.ext)
		logger.Info("exported", logger.Fields{"format": t.ext, "path": path})
	}

	if store != nil {
		path, err := store.SaveSummary(summary)
		if err != nil {
			return err
		}
		logger.Info("exported", logger.Fields{"format": "json", "path": path})
	}
	return nil
}
