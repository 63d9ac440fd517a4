package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/nilsmagnus/voroscope/internal/imageio"
	"github.com/nilsmagnus/voroscope/internal/voronoi"
)

// watchInputs reloads the source image into engine whenever it changes
// on disk, so interactive parameter iteration doesn't require a
// restart. It starts its own goroutine, which runs until the returned
// watcher is closed; the caller closes the watcher on exit.
func watchInputs(engine *voronoi.Engine, imagePath string, log *zap.Logger) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(imagePath)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(imagePath) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reloadImage(engine, imagePath, log)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return w, nil
}

func reloadImage(engine *voronoi.Engine, path string, log *zap.Logger) {
	pix, w, h, err := imageio.Load(path)
	if err != nil {
		log.Warn("reload image failed, keeping previous frame", zap.String("path", path), zap.Error(err))
		return
	}
	if err := engine.SetImage(pix, w, h); err != nil {
		log.Warn("reload image rejected", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info("reloaded image", zap.String("path", path), zap.Int("w", w), zap.Int("h", h))
}
