package sink

import (
	"context"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
	"go.uber.org/zap"
)

// CheckCapacity is a best-effort preflight check run before opening a
// filesystem sink: it warns (never aborts the dump) when free space on the
// destination volume is under minFree. A failure to read disk usage at all
// (unsupported platform, missing mount info, sandboxed environment) is
// itself only logged, since capacity reporting is advisory and must never
// be a reason a dump that would otherwise succeed gets rejected.
func CheckCapacity(ctx context.Context, path string, minFree uint64, log *zap.Logger) {
	if path == "" || log == nil {
		return
	}

	usage, err := disk.UsageWithContext(ctx, filepath.Dir(path))
	if err != nil {
		log.Warn("sink: could not determine free disk space", zap.String("path", path), zap.Error(err))
		return
	}

	if usage.Free < minFree {
		log.Warn("sink: destination volume is low on free space",
			zap.String("path", path),
			zap.Uint64("free_bytes", usage.Free),
			zap.Uint64("want_bytes", minFree),
		)
	}
}
