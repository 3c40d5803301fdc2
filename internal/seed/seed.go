package seed

import (
	"log/slog"
	"math/rand"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
	"github.com/fitstudio/coach-scheduler/backend/internal/repository"
	"github.com/fitstudio/coach-scheduler/backend/internal/utils"
)

// SeedDemoData 插入一批门店和教练并建立关联，方便本地开发时直接生成排班
func SeedDemoData(r *repository.Repository, storeCount int, coachCount int, emailDomainName string) {
	stores := make([]*domain.Store, 0, storeCount)
	for i := 0; i < storeCount; i++ {
		store := utils.GenerateRandomStore()
		if err := r.CreateStore(store); err != nil {
			slog.Error("插入门店失败", "error", err)
			continue
		}
		stores = append(stores, store)
	}

	if len(stores) == 0 {
		slog.Error("没有成功插入任何门店")
		return
	}

	inserted := 0
	for i := 0; i < coachCount; i++ {
		coach := utils.GenerateRandomCoach(emailDomainName)

		primary := stores[rand.Intn(len(stores))]
		coach.Availability = utils.GenerateRandomWeekSchedule(primary)

		if err := r.CreateCoach(coach); err != nil {
			slog.Error("插入教练失败", "error", err)
			continue
		}

		// 主门店必选，其余门店随机挂为副门店
		affiliations := []domain.CoachStore{{StoreID: primary.ID, IsPrimary: true}}
		for _, store := range stores {
			if store.ID == primary.ID {
				continue
			}
			if rand.Intn(3) == 0 {
				affiliations = append(affiliations, domain.CoachStore{StoreID: store.ID, IsPrimary: false})
			}
		}

		if err := r.SetCoachStores(coach.ID, affiliations); err != nil {
			slog.Error("关联教练门店失败", "error", err)
			continue
		}

		inserted++
	}

	slog.Info("插入演示数据完成", "stores", len(stores), "coaches", inserted)
}
