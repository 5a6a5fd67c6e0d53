package api

import (
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/services"
)

// Server holds the wired services the HTTP handlers dispatch to.
type Server struct {
	DB             *db.DB
	ProfileService services.ProfileService
	SRSService     services.SRSService
	DuelService    services.DuelService
	GuildService   services.GuildService
	ShopService    services.ShopService
	SpellService   services.SpellService
	StreakService  services.StreakService
	GameService    services.GameService
}
