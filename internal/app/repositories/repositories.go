package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by the pool and a
// transaction. Repository methods that must participate in a caller-owned
// transaction take a Querier instead of using the pool directly.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	CenterRepository       *CenterRepository
	LeadRepository         *LeadRepository
	FollowupRepository     *FollowupRepository
	StudentRepository      *StudentRepository
	BatchRepository        *BatchRepository
	PaymentRepository      *PaymentRepository
	AttendanceRepository   *AttendanceRepository
	NotificationRepository *NotificationRepository
	StagingRepository      *StagingRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		CenterRepository:       NewCenterRepository(db),
		LeadRepository:         NewLeadRepository(db),
		FollowupRepository:     NewFollowupRepository(db),
		StudentRepository:      NewStudentRepository(db),
		BatchRepository:        NewBatchRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		StagingRepository:      NewStagingRepository(db),
	}
}
