package storage

import (
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Query logs

func (r *Repository) SaveQueryLog(log *QueryLog) error {
	return r.db.Create(log).Error
}

func (r *Repository) GetRecentQueries(limit int) ([]QueryLog, error) {
	var logs []QueryLog
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *Repository) CountQueriesByIntent() (map[string]int64, error) {
	var rows []struct {
		IntentType string
		Count      int64
	}
	err := r.db.Model(&QueryLog{}).
		Select("intent_type, COUNT(*) AS count").
		Group("intent_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.IntentType] = row.Count
	}
	return counts, nil
}

// Analysis runs

func (r *Repository) SaveAnalysisRun(run *AnalysisRun) error {
	return r.db.Create(run).Error
}

func (r *Repository) GetLatestAnalysisRun() (*AnalysisRun, error) {
	var run AnalysisRun
	err := r.db.Order("created_at DESC, id DESC").First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
