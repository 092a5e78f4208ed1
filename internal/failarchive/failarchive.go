// Package failarchive preserves failure reports an agent is about to
// overwrite, so earlier diagnostic context survives into the next retry.
package failarchive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	failuresDir = ".autoflow/.failures"
	archiveDir  = ".autoflow/.failures/archive"
)

// reportNameFor maps an agent name to the failure-report file it is known
// to overwrite. Agents not in this table produce no report and are a no-op.
func reportNameFor(agentName string, sprintID uint32) (string, bool) {
	switch agentName {
	case "reviewer":
		return fmt.Sprintf("sprint-%d-review.md", sprintID), true
	case "unit-test-runner":
		return fmt.Sprintf("sprint-%d-unit-tests.md", sprintID), true
	case "e2e-test-runner":
		return fmt.Sprintf("sprint-%d-integration-tests.md", sprintID), true
	case "blocker-resolver":
		return fmt.Sprintf("blocker-analysis-sprint-%d.md", sprintID), true
	default:
		return "", false
	}
}

// ArchiveBeforeAgent copies the failure report that agentName is about to
// overwrite (if any, and if it exists) into the archive directory with a
// timestamp suffix, so a retry doesn't lose the prior attempt's diagnostics.
// now is injected so behavior is deterministic under test.
func ArchiveBeforeAgent(projectRoot string, sprintID uint32, agentName string, now time.Time) error {
	name, ok := reportNameFor(agentName, sprintID)
	if !ok {
		return nil
	}

	src := filepath.Join(projectRoot, failuresDir, name)
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failarchive: reading %s: %w", src, err)
	}

	dstDir := filepath.Join(projectRoot, archiveDir)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failarchive: creating archive dir: %w", err)
	}

	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	stamp := now.Format("20060102_150405")
	dst := filepath.Join(dstDir, fmt.Sprintf("%s-%s%s", base, stamp, ext))

	if _, err := os.Stat(dst); err == nil {
		// Timestamp collision (two archives within the same second): make
		// the name unique instead of clobbering the earlier archive.
		dst = filepath.Join(dstDir, fmt.Sprintf("%s-%s-%s%s", base, stamp, uuid.NewString()[:8], ext))
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failarchive: writing %s: %w", dst, err)
	}
	return nil
}
