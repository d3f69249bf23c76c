package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	authRepo "obra360_backend/internals/features/users/auth/repository"
)

// RunBlacklistCleanup drops blacklist rows whose token expired more than
// TOKEN_BLACKLIST_TTL_DAYS ago.
func RunBlacklistCleanup(db *gorm.DB) {
	deleteBefore := time.Now().UTC().Add(-configs.TokenBlacklistTTL)
	n, err := authRepo.CleanupExpiredBlacklist(db, deleteBefore)
	if err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
		return
	}
	log.Printf("[CLEANUP] %d expired tokens removed", n)
}

// StartBlacklistCleanupScheduler runs the cleanup daily. Stop the returned cron on shutdown.
func StartBlacklistCleanupScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc("@daily", func() { RunBlacklistCleanup(db) }); err != nil {
		log.Printf("[ERROR] schedule blacklist cleanup: %v", err)
		return c
	}
	c.Start()
	log.Println("[INFO] token_blacklist cleanup scheduled (@daily)")
	return c
}
