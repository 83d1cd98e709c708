package identity

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/srs-rtc/signal-server/pkg/protocol"
	"go.uber.org/fx"
)

// UserLookup is the external authentication store seen by the gateway. The
// lookup may suspend; callers must not hold registry locks across it.
type UserLookup interface {
	GetUserInfo(ctx context.Context, userID string, userType protocol.UserType) (protocol.UserInfo, error)
}

type IdentityService struct {
	db     *sql.DB
	logger *slog.Logger
}

// GetUserInfo resolves the (userId, userType) pair against the user table.
// Exactly one row admits; zero rows is an authentication failure and more
// than one row is a data-integrity fault.
func (s *IdentityService) GetUserInfo(ctx context.Context, userID string, userType protocol.UserType) (protocol.UserInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, user_type FROM users WHERE user_id = $1 AND user_type = $2`,
		userID, int(userType),
	)
	if err != nil {
		s.logger.Error("user store query failed",
			slog.String("userId", userID),
			slog.String("userType", userType.String()),
			slog.String("err", err.Error()))
		return protocol.UserInfo{}, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	var result []protocol.UserInfo
	for rows.Next() {
		var info protocol.UserInfo
		if err := rows.Scan(&info.UserID, &info.Username, &info.UserType); err != nil {
			return protocol.UserInfo{}, errors.Join(ErrStoreFailure, err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return protocol.UserInfo{}, errors.Join(ErrStoreFailure, err)
	}

	switch len(result) {
	case 0:
		return protocol.UserInfo{}, ErrUserNotFound
	case 1:
		return result[0], nil
	default:
		return protocol.UserInfo{}, ErrAmbiguousUser
	}
}

type NewIdentityServiceParams struct {
	fx.In

	DB     *sql.DB
	Logger *slog.Logger
}

func NewIdentityService(params NewIdentityServiceParams) *IdentityService {
	return &IdentityService{
		db:     params.DB,
		logger: params.Logger,
	}
}

var _ UserLookup = (*IdentityService)(nil)
