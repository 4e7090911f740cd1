package service

import (
	"context"
	"testing"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsChatLogRepo struct {
	fakeChatLogRepo
	bySource   map[string]int64
	byLevel    map[string]int64
	lastOffset int
	lastLimit  int
}

func (f *statsChatLogRepo) FindWithPagination(offset, limit int) ([]model.ChatLog, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return []model.ChatLog{}, 0, nil
}

func (f *statsChatLogRepo) CountBySource() (map[string]int64, error)         { return f.bySource, nil }
func (f *statsChatLogRepo) CountByEmergencyLevel() (map[string]int64, error) { return f.byLevel, nil }

func TestStatsService_GetOverview(t *testing.T) {
	repo := &statsChatLogRepo{
		bySource: map[string]int64{
			model.SourceFAQ:      10,
			model.SourceAI:       5,
			model.SourceFallback: 3,
		},
		byLevel: map[string]int64{
			model.EmergencyNone:     16,
			model.EmergencyCritical: 2,
		},
	}
	svc := NewStatsService(repo, nil, config.MinIOConfig{})

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(18), overview.TotalMessages)
	assert.Equal(t, int64(10), overview.BySource[model.SourceFAQ])
	assert.Equal(t, int64(2), overview.ByEmergencyLevel[model.EmergencyCritical])
	// redis 未配置时意图计数为空表而非 nil
	assert.NotNil(t, overview.ByIntent)
	assert.Empty(t, overview.ByIntent)
}

func TestStatsService_ListChatLogsClampsPaging(t *testing.T) {
	repo := &statsChatLogRepo{}
	svc := NewStatsService(repo, nil, config.MinIOConfig{})

	_, _, err := svc.ListChatLogs(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.lastOffset)
	assert.Equal(t, 20, repo.lastLimit)

	_, _, err = svc.ListChatLogs(3, 500)
	require.NoError(t, err)
	assert.Equal(t, 40, repo.lastOffset)
	assert.Equal(t, 20, repo.lastLimit)

	_, _, err = svc.ListChatLogs(2, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastOffset)
	assert.Equal(t, 50, repo.lastLimit)
}

func TestStatsService_ExportRequiresObjectStorage(t *testing.T) {
	svc := NewStatsService(&statsChatLogRepo{}, nil, config.MinIOConfig{})

	_, err := svc.ExportChatLogs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
