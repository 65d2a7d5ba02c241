package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/pyqs/internal/config"
	"github.com/verte-zerg/pyqs/internal/dataset"
	"github.com/verte-zerg/pyqs/internal/model"
	"github.com/verte-zerg/pyqs/internal/store"
)

var (
	errEmptyCatalogue = errors.New("catalogue is empty")
	errNoCatalogue    = errors.New("no such catalogue")
)

// loadChapters picks the first configured source: an explicit SQLite
// catalogue, an explicit dataset file, the default catalogue when it exists,
// and finally the embedded dataset.
func loadChapters(ctx context.Context, dbPath, datasetPath string, log *logrus.Logger) ([]model.Chapter, error) {
	switch {
	case dbPath != "":
		return loadFromStore(ctx, dbPath, log)
	case datasetPath != "":
		chapters, err := dataset.LoadFile(datasetPath)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"dataset": datasetPath, "chapters": len(chapters)}).Info("loaded dataset file")
		return chapters, nil
	}

	defaultDB := config.DefaultDBPath()
	if _, err := os.Stat(defaultDB); err == nil {
		chapters, err := loadFromStore(ctx, defaultDB, log)
		if err == nil {
			return chapters, nil
		}
		if !errors.Is(err, errEmptyCatalogue) {
			return nil, err
		}
	}

	chapters, err := dataset.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded dataset: %w", err)
	}
	log.WithField("chapters", len(chapters)).Info("loaded embedded dataset")
	return chapters, nil
}

// loadFromStore reads an existing catalogue and validates it like a dataset
// file. Only import creates catalogues.
func loadFromStore(ctx context.Context, path string, log *logrus.Logger) ([]model.Chapter, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run: pyqs import --dataset <file> --db %s)", errNoCatalogue, path, path)
		}
		return nil, fmt.Errorf("failed to stat db: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()
	chapters, err := st.ListChapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: %s (run: pyqs import --dataset <file>)", errEmptyCatalogue, path)
	}
	chapters, err = dataset.Convert(dataset.Records(chapters))
	if err != nil {
		return nil, fmt.Errorf("failed to validate catalogue %s: %w", path, err)
	}
	log.WithFields(logrus.Fields{"db": path, "chapters": len(chapters)}).Info("loaded catalogue")
	return chapters, nil
}

func importChapters(ctx context.Context, dbPath, datasetPath string, log *logrus.Logger) (int, error) {
	chapters, err := dataset.LoadFile(datasetPath)
	if err != nil {
		return 0, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()
	if err := st.ReplaceChapters(ctx, chapters); err != nil {
		return 0, fmt.Errorf("failed to write catalogue: %w", err)
	}
	n, err := st.CountChapters(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count chapters: %w", err)
	}
	log.WithFields(logrus.Fields{"db": dbPath, "chapters": n}).Info("imported dataset")
	return n, nil
}
