// handlers/init.go - Handler wiring
package handlers

import (
	"fitforge/database"
	"fitforge/notify"
	"fitforge/services"
)

var (
	achievementCache   *services.AchievementCache
	awardCoordinator   *services.AwardCoordinator
	progressTracker    *services.ProgressTracker
	checkerPipeline    *services.CheckerPipeline
	progressionService *services.ProgressionService
	guildService       *services.GuildService
	raidService        *services.RaidService
	notifyHub          *notify.Hub
)

// InitHandlers constructs the service graph. Called once from main after
// the database is ready.
func InitHandlers(hub *notify.Hub) {
	db := database.GetDB()

	notifyHub = hub
	achievementCache = services.NewAchievementCache(db)
	awardCoordinator = services.NewAwardCoordinator(db, hub)
	progressTracker = services.NewProgressTracker(db, awardCoordinator)

	checkerPipeline = services.NewCheckerPipeline(db, achievementCache)
	for _, c := range services.DefaultCheckers(db, progressTracker) {
		checkerPipeline.Register(c)
	}

	progressionService = services.NewProgressionService(db, checkerPipeline)
	guildService = services.NewGuildService(db)
	raidService = services.NewRaidService(db)
}
