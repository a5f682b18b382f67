package config

import (
	"os"
	"strconv"
	"time"
)

// GetAllSettings returns a map of the dynamic settings currently loaded in
// memory, used by the settings endpoint.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_version":              Global.App.Version,
		"app_debug":                Global.App.Debug,
		"app_timezone":             Global.App.Timezone,
		"inbox_poll_interval":      Global.Inbox.PollInterval.String(),
		"inbox_fetch_throttle":     Global.Inbox.FetchThrottle.String(),
		"inbox_reorder_window":     Global.Inbox.ReorderWindow.String(),
		"inbox_agent_dedup_window": Global.Inbox.AgentDedupWindow.String(),
		"inbox_user_dedup_window":  Global.Inbox.UserDedupWindow.String(),
		"evolution_instance":       Global.Evolution.Instance,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
