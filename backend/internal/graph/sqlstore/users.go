package sqlstore

import (
	"context"
	"strings"

	"link-graph/backend/internal/graph"

	"gorm.io/gorm/clause"
)

// UpsertUser inserts by email or updates name, role, active flag and last login
func (s *Store) UpsertUser(ctx context.Context, u graph.User) (graph.User, error) {
	m := userModel(u)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if m.ID == "" {
		m.ID = graph.NewID()
	}
	m.CreatedAt, m.UpdatedAt = now(), now()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role", "is_active", "last_login_at", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return graph.User{}, translate(err, "upsert user")
	}
	return s.GetUserByEmail(ctx, m.Email)
}

func (s *Store) GetUser(ctx context.Context, id string) (graph.User, error) {
	var m UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return graph.User{}, translate(err, "get user")
	}
	return m.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (graph.User, error) {
	var m UserModel
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error
	if err != nil {
		return graph.User{}, translate(err, "get user by email")
	}
	return m.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]graph.User, error) {
	rows := make([]UserModel, 0)
	if err := s.db.WithContext(ctx).Order("email ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list users")
	}
	result := make([]graph.User, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}
