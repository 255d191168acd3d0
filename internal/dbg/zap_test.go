package dbg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/b3quant/apurador/pkg/utility"
)

func TestBuild_AttachesExecutionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}

	logger := build(cfg)
	logger.Info("boot")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"eid"`) {
		t.Errorf("log line missing eid field: %s", line)
	}
	if !strings.Contains(line, utility.GetExecutionID().String()) {
		t.Errorf("log line missing execution id value: %s", line)
	}
}
