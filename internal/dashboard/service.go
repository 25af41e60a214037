package dashboard

import (
	"context"
	"math"

	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
)

// HoursPerSession is the nominal training time credited per session.
const HoursPerSession = 2

type Store interface {
	Products() []store.Product
	Documents() []store.Document
	Users() []store.User
	Sessions() []store.Session
}

// Stats backs every role's dashboard cards. Sessions counts archived sessions only.
type Stats struct {
	TotalProducts      int `json:"total_products"`
	TotalDocuments     int `json:"total_documents"`
	ProductRegions     int `json:"product_regions"`
	TotalUsers         int `json:"total_users"`
	Trainers           int `json:"trainers"`
	Trainees           int `json:"trainees"`
	UserRegions        int `json:"user_regions"`
	TotalSessions      int `json:"total_sessions"`
	CompletedSessions  int `json:"completed_sessions"`
	InProgressSessions int `json:"in_progress_sessions"`
	TrainingHours      int `json:"training_hours"`
	CompletionPercent  int `json:"completion_percent"`
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	store Store
}

func NewService(st Store) (Service, error) {
	if st == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard store required")
	}
	return &service{store: st}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	products := s.store.Products()
	users := s.store.Users()
	sessions := s.store.Sessions()

	stats := &Stats{
		TotalProducts:  len(products),
		TotalDocuments: len(s.store.Documents()),
		TotalUsers:     len(users),
		TotalSessions:  len(sessions),
		TrainingHours:  len(sessions) * HoursPerSession,
	}

	productRegions := map[string]struct{}{}
	for _, p := range products {
		productRegions[p.Region] = struct{}{}
	}
	stats.ProductRegions = len(productRegions)

	userRegions := map[string]struct{}{}
	for _, u := range users {
		userRegions[u.Region] = struct{}{}
		switch u.Role {
		case enums.UserRoleTrainer:
			stats.Trainers++
		case enums.UserRoleTrainee:
			stats.Trainees++
		}
	}
	stats.UserRegions = len(userRegions)

	for _, sess := range sessions {
		switch sess.Status {
		case enums.SessionStatusCompleted:
			stats.CompletedSessions++
		case enums.SessionStatusInProgress:
			stats.InProgressSessions++
		}
	}
	if stats.TotalSessions > 0 {
		stats.CompletionPercent = int(math.Round(float64(stats.CompletedSessions) * 100 / float64(stats.TotalSessions)))
	}
	return stats, nil
}
