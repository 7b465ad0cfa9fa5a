package adapter

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// RunManifest describes one batch-sampling run.
type RunManifest struct {
	ID           string    `msgpack:"id"`
	Seed         *uint64   `msgpack:"seed"`
	Shots        int       `msgpack:"shots"`
	Measurements int       `msgpack:"measurements"`
	Strategy     string    `msgpack:"strategy"`
	CreatedAt    time.Time `msgpack:"created_at"`
}

// ShotFile is the on-disk form of a sampling run: the manifest plus the
// projected record matrix, one row per shot.
type ShotFile struct {
	Manifest RunManifest `msgpack:"manifest"`
	Records  [][]uint8   `msgpack:"records"`
}

// NewRunManifest stamps a fresh manifest for a run about to be saved.
func NewRunManifest(seed *uint64, shots, measurements int, strategy string) RunManifest {
	return RunManifest{
		ID:           uuid.NewString(),
		Seed:         seed,
		Shots:        shots,
		Measurements: measurements,
		Strategy:     strategy,
		CreatedAt:    time.Now().UTC(),
	}
}

// ShotStore persists and retrieves sampled shot records.
type ShotStore interface {
	SaveShots(path string, file ShotFile) error
	LoadShots(path string) (ShotFile, error)
}

type shotStore struct{}

// NewShotStore constructs the msgpack-backed ShotStore implementation.
func NewShotStore() ShotStore {
	return &shotStore{}
}

func (ss *shotStore) SaveShots(path string, file ShotFile) error {
	data, err := msgpack.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode shot file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write shot file: %w", err)
	}

	return nil
}

func (ss *shotStore) LoadShots(path string) (ShotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ShotFile{}, fmt.Errorf("failed to read shot file: %w", err)
	}

	var file ShotFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return ShotFile{}, fmt.Errorf("failed to decode shot file: %w", err)
	}

	return file, nil
}
