package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports loads, walks and requests at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnDescriptorStart(context.Context, string) {}

func (h *logHooks) OnDescriptorComplete(_ context.Context, root string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("descriptor failed", "root", root, "duration", d, "err", err)
		return
	}
	h.logger.Debug("descriptor loaded", "root", root, "duration", d)
}

func (h *logHooks) OnSourcesStart(context.Context, string) {}

func (h *logHooks) OnSourcesComplete(_ context.Context, root string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sources failed", "root", root, "duration", d, "err", err)
		return
	}
	h.logger.Debug("sources loaded", "root", root, "count", n, "duration", d)
}

func (h *logHooks) OnWalkStart(_ context.Context, names []string) {
	h.logger.Debug("walk", "names", names)
}

func (h *logHooks) OnWalkComplete(_ context.Context, names []string, packages, missing int, d time.Duration, err error) {
	h.logger.Debug("walk done", "names", names, "packages", packages, "missing", missing, "duration", d, "err", err)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
