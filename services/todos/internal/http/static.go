package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	sharedlogger "github.com/sun1tar/tech-ip-sem2/shared/logger"
)

// ErrAssetMissing - файла страницы нет на диске
var ErrAssetMissing = errors.New("static asset missing")

// StaticHandler отдаёт index.html и заглушку favicon
type StaticHandler struct {
	indexPath string
	logger    *logrus.Logger
}

func NewStaticHandler(indexPath string, logger *logrus.Logger) *StaticHandler {
	if logger == nil {
		logger = sharedlogger.Default()
	}
	return &StaticHandler{indexPath: indexPath, logger: logger}
}

func (h *StaticHandler) readIndex() ([]byte, error) {
	data, err := os.ReadFile(h.indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAssetMissing, h.indexPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.indexPath, err)
	}
	return data, nil
}

// Index обрабатывает GET /; файл читается на каждый запрос
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	data, err := h.readIndex()
	if err != nil {
		logEntry := h.logger.WithFields(logrus.Fields{
			"component": "static_handler",
			"handler":   "Index",
			"path":      h.indexPath,
		})
		writeError(w, logEntry, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Favicon обрабатывает GET /favicon.ico
func (h *StaticHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
