// Package dbsync copies data between the local and remote backends and picks
// the direction when the caller does not.
package dbsync

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
)

// closeTimeDiff is how close two sync timestamps must be before the
// comparison treats them as simultaneous and defaults to pushing local out.
const closeTimeDiff = time.Minute

// Service performs sync runs. Failures surface in the result, not as errors,
// so callers can render a status message directly.
type Service struct {
	log *logrus.Logger
	now func() time.Time
}

func NewService(log *logrus.Logger) *Service {
	return &Service{log: log, now: time.Now}
}

// Metadata summarizes one backend's dataset for strategy selection.
func (s *Service) Metadata(ctx context.Context, repo repository.Repository) (*models.SyncMetadata, error) {
	export, err := repo.ExportData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s backend: %w", repo.Type(), err)
	}
	return &models.SyncMetadata{
		LastSync:    s.now(),
		Source:      repo.Type(),
		RecordCount: export.TotalRecords(),
		Checksum:    checksum(export),
	}, nil
}

// checksum fingerprints a snapshot from each table's name, record count and
// first few records. It detects drift cheaply, it is not cryptographic.
func checksum(export *models.DataExport) string {
	h := fnv.New32a()
	for _, table := range export.Tables() {
		sample := table.Records
		if len(sample) > 5 {
			sample = sample[:5]
		}
		raw, _ := json.Marshal(sample)
		fmt.Fprintf(h, "%s:%d:%s", table.Name, len(table.Records), raw)
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// CompareMetadata picks a sync strategy from the two sides' summaries. An
// empty side is always filled from the other; identical or near-simultaneous
// states default to pushing local out.
func (s *Service) CompareMetadata(local, remote *models.SyncMetadata) models.SyncStrategy {
	if local.RecordCount == 0 && remote.RecordCount > 0 {
		return models.SyncRemoteToLocal
	}
	if remote.RecordCount == 0 && local.RecordCount > 0 {
		return models.SyncLocalToRemote
	}
	if local.RecordCount == 0 && remote.RecordCount == 0 {
		return models.SyncLocalToRemote
	}

	diff := local.LastSync.Sub(remote.LastSync)
	if diff < 0 {
		diff = -diff
	}
	if diff < closeTimeDiff {
		return models.SyncLocalToRemote
	}

	if local.Checksum != remote.Checksum {
		if local.LastSync.After(remote.LastSync) {
			return models.SyncLocalToRemote
		}
		return models.SyncRemoteToLocal
	}
	return models.SyncLocalToRemote
}

// Sync runs one sync between the two backends. With an empty strategy the
// direction is chosen from the two sides' metadata.
func (s *Service) Sync(ctx context.Context, local, remote repository.Repository, strategy models.SyncStrategy) *models.SyncResult {
	result := &models.SyncResult{ID: uuid.NewString(), Conflicts: []models.SyncConflict{}}

	if strategy == "" {
		localMeta, err := s.Metadata(ctx, local)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		remoteMeta, err := s.Metadata(ctx, remote)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		strategy = s.CompareMetadata(localMeta, remoteMeta)
		s.log.Infof("Auto-selected sync strategy: %s", strategy)
	}

	switch strategy {
	case models.SyncLocalToRemote:
		s.transfer(ctx, local, remote, result)
	case models.SyncRemoteToLocal:
		s.transfer(ctx, remote, local, result)
	case models.SyncMerge:
		s.merge(ctx, local, remote, result)
	case models.SyncStrategyConflict:
		s.reportConflicts(ctx, local, remote, result)
	default:
		result.Error = fmt.Sprintf("unknown sync strategy %q", strategy)
	}
	return result
}

// SyncWithDirection copies everything from source to target regardless of
// what the metadata says.
func (s *Service) SyncWithDirection(ctx context.Context, source, target repository.Repository) *models.SyncResult {
	result := &models.SyncResult{ID: uuid.NewString(), Conflicts: []models.SyncConflict{}}
	s.log.Infof("Syncing %s to %s", source.Type(), target.Type())
	s.transfer(ctx, source, target, result)
	return result
}

// transfer exports the source and imports the snapshot into the target.
func (s *Service) transfer(ctx context.Context, source, target repository.Repository, result *models.SyncResult) {
	export, err := source.ExportData(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to export %s backend: %v", source.Type(), err)
		return
	}
	if err := target.ImportData(ctx, export); err != nil {
		result.Error = fmt.Sprintf("failed to import into %s backend: %v", target.Type(), err)
		return
	}
	result.Success = true
	result.RecordsTransferred = export.TotalRecords()
	s.log.Infof("Transferred %d records from %s to %s", result.RecordsTransferred, source.Type(), target.Type())
}

// merge keeps the side whose data looks most recently written and copies it
// over the other. Record-level merging is not attempted.
func (s *Service) merge(ctx context.Context, local, remote repository.Repository, result *models.SyncResult) {
	localMeta, err := s.Metadata(ctx, local)
	if err != nil {
		result.Error = err.Error()
		return
	}
	remoteMeta, err := s.Metadata(ctx, remote)
	if err != nil {
		result.Error = err.Error()
		return
	}
	if remoteMeta.LastSync.After(localMeta.LastSync) {
		s.transfer(ctx, remote, local, result)
		return
	}
	s.transfer(ctx, local, remote, result)
}

// reportConflicts compares per-table record counts and reports mismatches
// without transferring anything.
func (s *Service) reportConflicts(ctx context.Context, local, remote repository.Repository, result *models.SyncResult) {
	localExport, err := local.ExportData(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to export %s backend: %v", local.Type(), err)
		return
	}
	remoteExport, err := remote.ExportData(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to export %s backend: %v", remote.Type(), err)
		return
	}

	localTables := localExport.Tables()
	remoteTables := remoteExport.Tables()
	for i := range localTables {
		if len(localTables[i].Records) != len(remoteTables[i].Records) {
			result.Conflicts = append(result.Conflicts, models.SyncConflict{
				Table:      localTables[i].Name,
				RecordID:   -1,
				LocalData:  len(localTables[i].Records),
				RemoteData: len(remoteTables[i].Records),
			})
		}
	}

	if len(result.Conflicts) > 0 {
		result.Error = fmt.Sprintf("%d tables differ, manual resolution required", len(result.Conflicts))
		return
	}
	result.Success = true
}
