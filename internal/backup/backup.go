// Package backup provides automated SQLite backups for the contact database
// with tiered retention and integrity verification.
package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds backup service configuration.
type Config struct {
	// DBPath is the SQLite database file to back up.
	DBPath string

	// BackupDir is where backup files are written.
	BackupDir string

	// Interval between automated backups (default: 24h).
	Interval time.Duration

	// Retention defines how many backups to keep per age tier.
	Retention RetentionPolicy

	// Verify enables an integrity check after each backup.
	Verify bool
}

// RetentionPolicy defines how many backups to keep at each tier. Backups
// are categorized by age: hourly (< 24h), daily (1-7 days), weekly
// (7-30 days), monthly (30-365 days). Backups older than a year are
// always deleted.
type RetentionPolicy struct {
	Hourly  int // default: 24
	Daily   int // default: 7
	Weekly  int // default: 4
	Monthly int // default: 12
}

// Info contains metadata about one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	Verified  bool
}

// Result describes one completed backup operation.
type Result struct {
	Path     string
	Duration time.Duration
	Size     int64
	Verified bool
	Error    error
}

// Status reports the backup service's current health.
type Status struct {
	Status        string // "healthy", "warning", or "error"
	Message       string
	LastBackup    time.Time
	NextBackup    time.Time
	TotalBackups  int
	BackupDir     string
	DiskSpaceUsed int64
}

// Service performs scheduled database backups with verification and
// retention.
type Service struct {
	dbPath    string
	backupDir string
	interval  time.Duration
	retention RetentionPolicy
	verify    bool

	mu             sync.Mutex
	running        bool
	stopCh         chan struct{}
	lastBackupTime time.Time
	nextBackupTime time.Time
}

// NewService creates a backup service, applying defaults to any
// unspecified config fields and creating the backup directory.
func NewService(cfg Config) (*Service, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.BackupDir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Retention.Hourly == 0 {
		cfg.Retention.Hourly = 24
	}
	if cfg.Retention.Daily == 0 {
		cfg.Retention.Daily = 7
	}
	if cfg.Retention.Weekly == 0 {
		cfg.Retention.Weekly = 4
	}
	if cfg.Retention.Monthly == 0 {
		cfg.Retention.Monthly = 12
	}

	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &Service{
		dbPath:    cfg.DBPath,
		backupDir: cfg.BackupDir,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		verify:    cfg.Verify,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start runs backups at the configured interval until the context is
// cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("backup service is already running")
	}
	s.running = true
	s.nextBackupTime = time.Now().Add(s.interval)
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Backup service started: interval=%v, backup_dir=%s", s.interval, s.backupDir)

	for {
		select {
		case <-ctx.Done():
			log.Println("Backup service stopping (context cancelled)")
			return ctx.Err()

		case <-s.stopCh:
			log.Println("Backup service stopping (stop requested)")
			return nil

		case <-ticker.C:
			result, err := s.BackupNow(ctx)
			if err != nil {
				log.Printf("Scheduled backup failed: %v", err)
			} else {
				log.Printf("Scheduled backup completed: path=%s, size=%d bytes, duration=%v, verified=%v",
					result.Path, result.Size, result.Duration, result.Verified)
			}

			s.mu.Lock()
			s.nextBackupTime = time.Now().Add(s.interval)
			s.mu.Unlock()
		}
	}
}

// Stop stops the backup service gracefully.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("backup service is not running")
	}

	close(s.stopCh)
	s.running = false
	return nil
}

// BackupNow performs an immediate backup: a timestamped copy, optional
// verification, then retention cleanup.
func (s *Service) BackupNow(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	if _, err := os.Stat(s.dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}

	// Microsecond precision keeps names unique under rapid manual backups.
	timestamp := time.Now().Format("20060102-150405.000000")
	backupPath := filepath.Join(s.backupDir, fmt.Sprintf("garden-backup-%s.db", timestamp))

	if err := backupSQLite(s.dbPath, backupPath); err != nil {
		return &Result{
			Path:     backupPath,
			Duration: time.Since(startTime),
			Error:    err,
		}, err
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		return &Result{
			Path:     backupPath,
			Duration: time.Since(startTime),
			Error:    fmt.Errorf("failed to stat backup: %w", err),
		}, err
	}

	result := &Result{
		Path:     backupPath,
		Duration: time.Since(startTime),
		Size:     info.Size(),
	}

	if s.verify {
		if err := verifyBackup(backupPath); err != nil {
			result.Error = fmt.Errorf("backup verification failed: %w", err)
			return result, result.Error
		}
		result.Verified = true
	}

	s.mu.Lock()
	s.lastBackupTime = time.Now()
	s.mu.Unlock()

	// Retention failures don't fail the backup itself.
	if err := applyRetention(s.backupDir, s.retention); err != nil {
		log.Printf("Warning: failed to apply retention policy: %v", err)
	}

	return result, nil
}

// ListBackups lists all available backups, newest first.
func (s *Service) ListBackups() ([]Info, error) {
	return listBackups(s.backupDir)
}

// RestoreBackup restores the database from a backup file. The service
// must be stopped and the database closed before calling this.
func (s *Service) RestoreBackup(ctx context.Context, backupPath string) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		return fmt.Errorf("cannot restore while backup service is running")
	}

	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	// Snapshot the current database so a failed restore can roll back.
	tempBackup := s.dbPath + ".pre-restore"
	if _, err := os.Stat(s.dbPath); err == nil {
		if err := backupSQLite(s.dbPath, tempBackup); err != nil {
			return fmt.Errorf("failed to create pre-restore backup: %w", err)
		}
		defer os.Remove(tempBackup)
	}

	if err := restoreSQLite(backupPath, s.dbPath); err != nil {
		if _, statErr := os.Stat(tempBackup); statErr == nil {
			if restoreErr := restoreSQLite(tempBackup, s.dbPath); restoreErr != nil {
				return fmt.Errorf("restore failed and rollback failed: %v (restore error: %w)", restoreErr, err)
			}
			return fmt.Errorf("restore failed, rolled back to previous state: %w", err)
		}
		return err
	}

	log.Printf("Database restored from backup: %s", backupPath)
	return nil
}

// HealthCheck returns the current state of the backup service.
func (s *Service) HealthCheck() (*Status, error) {
	s.mu.Lock()
	lastBackup := s.lastBackupTime
	nextBackup := s.nextBackupTime
	s.mu.Unlock()

	backups, err := s.ListBackups()
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	diskUsage, err := diskUsage(s.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate disk usage: %w", err)
	}

	status := &Status{
		LastBackup:    lastBackup,
		NextBackup:    nextBackup,
		TotalBackups:  len(backups),
		BackupDir:     s.backupDir,
		DiskSpaceUsed: diskUsage,
		Status:        "healthy",
	}

	switch {
	case lastBackup.IsZero():
		status.Message = "No backups yet"
	case time.Since(lastBackup) > s.interval*2:
		status.Status = "warning"
		status.Message = fmt.Sprintf("Backup overdue by %v", time.Since(lastBackup)-s.interval)
	default:
		status.Message = fmt.Sprintf("Last backup: %v ago", time.Since(lastBackup).Round(time.Minute))
	}

	return status, nil
}
