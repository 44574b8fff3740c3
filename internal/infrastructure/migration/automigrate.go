package migration

import (
	"github.com/ngoinfo/grantpilot/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.NGOProfileModel{},
		&models.FundingOpportunityModel{},
		&models.FitScanModel{},
		&models.UserPlanModel{},
		&models.UsageLedgerModel{},
		&models.RefreshTokenModel{},
		&models.MagicLinkTokenModel{},
	}
}
