package pgrepo

import (
	"context"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/repository/repoargs"
	"github.com/fsdevblog/orderdesk/pkg/uow"
)

const userColumns = "id, created_at, updated_at, username, encrypted_password"

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера в базе данных. В случае конфликта юзернейма возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		"INSERT INTO users (username, encrypted_password) VALUES ($1, $2) RETURNING "+userColumns,
		user.Username, user.Password)

	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return dbUser, nil
}

// FindUserByUsername ищет юзера по его юзернейму. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username)

	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return dbUser, nil
}

func scanUser(row pgxRow) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Password); err != nil {
		return nil, err
	}
	return &user, nil
}
