package artifact

import (
	"fmt"
	"regexp"

	"github.com/hupe1980/agentnet/core"
)

// Store persists run documents per network.
type Store interface {
	// Save stores (or overwrites) the document for networkID / runID.
	Save(networkID, runID string, data []byte) error
	// Get returns the document or an error wrapping core.ErrNotFound.
	Get(networkID, runID string) ([]byte, error)
	// List returns the run ids stored for networkID, sorted.
	List(networkID string) ([]string, error)
	// Delete removes the document or fails with core.ErrNotFound.
	Delete(networkID, runID string) error
}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// validKey rejects ids that are empty or could escape a storage directory.
func validKey(networkID, runID string) error {
	if !keyRe.MatchString(networkID) || networkID == ".." {
		return fmt.Errorf("%w: network id %q", core.ErrInvalidArgument, networkID)
	}
	if !keyRe.MatchString(runID) || runID == ".." {
		return fmt.Errorf("%w: run id %q", core.ErrInvalidArgument, runID)
	}
	return nil
}

func notFound(networkID, runID string) error {
	return fmt.Errorf("%w: run %s of network %s", core.ErrNotFound, runID, networkID)
}
