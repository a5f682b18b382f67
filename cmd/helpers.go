package cmd

import (
	"fmt"
	"strings"

	coreConfig "github.com/zapdesk/zapdesk/core/config"
	"github.com/zapdesk/zapdesk/reconcile"
)

// deriveSocketURL builds the gateway's websocket endpoint from its HTTP base
// URL when no explicit socket URL was configured.
func deriveSocketURL(baseURL, instance string) string {
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(ws, "/"), instance)
}

func reconcileOptions(cfg *coreConfig.Config) reconcile.MergeOptions {
	return reconcile.MergeOptions{
		ReorderWindow:    cfg.Inbox.ReorderWindow,
		AgentDedupWindow: cfg.Inbox.AgentDedupWindow,
		UserDedupWindow:  cfg.Inbox.UserDedupWindow,
	}
}

// mediaBaseURL is the public prefix uploaded media is served under; the
// gateway fetches files from here when sending media by reference.
func mediaBaseURL(cfg *coreConfig.Config) string {
	base := fmt.Sprintf("http://localhost:%s", cfg.App.Port)
	if v := cfg.App.BasePath; v != "" {
		base += v
	}
	return base + "/statics/media"
}
