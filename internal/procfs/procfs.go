// Package procfs renders procfs-compatible virtual files from accounting
// snapshots. Every producer re-renders on each read; nothing is cached.
// The HTTP handler here stands in for the virtual-filesystem framework:
// it turns each byte producer into a readable path under /proc/.
package procfs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/phuslu/log"

	"cpustat_exporter/internal/kernel/proctable"
	"cpustat_exporter/internal/logger"
)

// ErrUnknownPID is reported when an environ read names a pid the process
// table does not know.
var ErrUnknownPID = errors.New("procfs: unknown pid")

// Producer renders the current contents of one virtual file.
type Producer interface {
	Data() ([]byte, error)
}

// Handler serves the procfs tree over HTTP.
type Handler struct {
	stat   Producer
	uptime Producer
	table  *proctable.Table
	log    log.Logger
}

// NewHandler builds the procfs HTTP surface. stat and uptime must be
// non-nil; table may be nil if per-process files are not exposed.
func NewHandler(stat, uptime Producer, table *proctable.Table) *Handler {
	return &Handler{
		stat:   stat,
		uptime: uptime,
		table:  table,
		log:    logger.NewLoggerWithContext("procfs"),
	}
}

// Mount registers the procfs routes on the given mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /proc/stat", h.serveProducer(h.stat))
	mux.HandleFunc("GET /proc/uptime", h.serveProducer(h.uptime))
	if h.table != nil {
		mux.HandleFunc("GET /proc/{pid}/environ", h.serveEnviron)
	}
}

func (h *Handler) serveProducer(p Producer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := p.Data()
		if err != nil {
			h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render procfs file")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
	}
}

func (h *Handler) serveEnviron(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.ParseInt(r.PathValue("pid"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data, err := NewEnvironProducer(h.table, int32(pid)).Data()
	if errors.Is(err, ErrUnknownPID) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}
