package dashboard

import (
	"context"
	"testing"

	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsOverMockData(t *testing.T) {
	svc, err := NewService(store.New(store.WithInitialState(store.MockState("hash"))))
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{
		TotalProducts:      3,
		TotalDocuments:     6,
		ProductRegions:     3,
		TotalUsers:         4,
		Trainers:           2,
		Trainees:           2,
		UserRegions:        4,
		TotalSessions:      3,
		CompletedSessions:  2,
		InProgressSessions: 1,
		TrainingHours:      6,
		CompletionPercent:  67,
	}, *stats)
}

func TestStatsEmptyStore(t *testing.T) {
	svc, err := NewService(store.New())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *stats)
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
