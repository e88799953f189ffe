package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/productdesk/internal/store"
	"go.uber.org/zap"
)

// BackupKeep is how many store backups survive pruning
const BackupKeep = 7

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	expr := strings.TrimSpace(a.appConfig.Store.BackupCron)
	if expr != "" {
		if _, ok := a.kv.(store.Backuper); !ok {
			zap.S().Warnf("store driver %s does not support backups", a.appConfig.Store.Driver)
		} else if _, err := a.sched.AddFunc(expr, a.SchedBackupTask); err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedBackupTask snapshots the local store into the backup directory and
// prunes old snapshots.
func (a *Application) SchedBackupTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	b, ok := a.kv.(store.Backuper)
	if !ok {
		return
	}
	dir := a.appConfig.GetBackupDir()
	ext := filepath.Ext(a.appConfig.Store.Path)
	if ext == "" {
		ext = ".db"
	}
	target := filepath.Join(dir, "products-"+time.Now().Format("20060102-150405")+ext)
	if err := b.Backup(target); err != nil {
		zap.L().Error("store backup failed", zap.String("path", target), zap.Error(err))
		return
	}
	zap.L().Info("store backup written", zap.String("path", target))

	if err := pruneBackups(dir, BackupKeep); err != nil {
		zap.L().Warn("prune backups failed", zap.Error(err))
	}
}

// pruneBackups removes all but the newest keep backup files in dir.
func pruneBackups(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "products-") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}
	// timestamped names sort chronologically
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
