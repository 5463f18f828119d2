package router

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logdna/ansible-logdna/internal/config"
	"github.com/logdna/ansible-logdna/internal/filter"
	"github.com/logdna/ansible-logdna/internal/hostinfo"
	"github.com/logdna/ansible-logdna/internal/ingest"
	"github.com/logdna/ansible-logdna/internal/meta"
	"github.com/logdna/ansible-logdna/internal/model"
)

// NewFromConfig wires a Router from resolved configuration: host identity
// is probed once, a fresh session ID is generated, and the ingest client
// is built unless the configuration disables delivery. baseURL overrides
// the URL assembled from host and endpoint when non-empty; now overrides
// the clock when non-nil.
func NewFromConfig(cfg config.Config, baseURL string, now func() time.Time) *Router {
	id := hostinfo.Resolve()
	session := &model.Session{
		ID:       uuid.NewString(),
		Hostname: id.Hostname,
		IP:       id.IP,
		MAC:      id.MAC,
		User:     id.User,
	}

	var client *ingest.Client
	if cfg.Disabled() {
		slog.Warn("no ingestion key configured; log shipping is disabled",
			"env", "LOGDNA_INGESTION_KEY")
	} else {
		if baseURL == "" {
			baseURL = "https://" + cfg.Host + cfg.Endpoint
		}
		client = ingest.New(baseURL, cfg.IngestionKey,
			ingest.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
			ingest.WithTags(cfg.Tags),
			ingest.WithGzip(cfg.Gzip),
		)
	}

	return New(Settings{
		Session:       session,
		Filter:        filter.New(cfg.IgnoreStatuses, cfg.IgnoreActions, cfg.IgnoreRoles, cfg.IgnorePlays),
		Meta:          meta.NewBuilder(session),
		Client:        client,
		AppName:       cfg.AppName,
		Template:      cfg.LogFormat,
		Hostname:      cfg.Hostname,
		UseTargetHost: cfg.UseTargetHost,
		DisableLevels: cfg.DisableLevels,
		IP:            resolveOverride(cfg.IPAddress, id.IP),
		MAC:           resolveOverride(cfg.MACAddress, id.MAC),
		Now:           now,
	})
}

// resolveOverride applies a configured IP/MAC override: empty keeps the
// detected value, a value starting with "disable" omits the field.
func resolveOverride(override, detected string) string {
	if override == "" {
		return detected
	}
	if strings.HasPrefix(strings.ToLower(override), "disable") {
		return ""
	}
	return override
}
