package auth

import (
	"context"
	"strings"

	"learnhub/apperror"
	"learnhub/models"

	"gorm.io/gorm"
)

type UserQuery struct {
	Page   int
	Limit  int
	Search string
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ListUsers pages through registered accounts, newest first. Search matches
// name, email or username.
func (s *CredentialStore) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	offset := (q.Page - 1) * q.Limit

	query := s.db.WithContext(ctx).Model(&models.User{})
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR username LIKE ?", like, like, like)
	}

	query = query.Session(&gorm.Session{})

	page := &UserPage{Users: []models.User{}, Page: q.Page, Limit: q.Limit}
	if err := query.Count(&page.Total).Error; err != nil {
		return nil, apperror.Storage("Failed to fetch user list", err)
	}
	err := query.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(q.Limit).
		Find(&page.Users).Error
	if err != nil {
		return nil, apperror.Storage("Failed to fetch user list", err)
	}
	return page, nil
}
