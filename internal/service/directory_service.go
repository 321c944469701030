package service

import (
	"context"
	"strings"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
)

// UserLister is the directory provider behind user search. The candidate
// list is assumed to fit in memory; no pagination.
type UserLister interface {
	ListActive(ctx context.Context) ([]model.User, error)
}

type DirectoryService struct {
	users UserLister
}

func NewDirectoryService(users UserLister) *DirectoryService {
	return &DirectoryService{users: users}
}

// Search filters the candidate list by a case-insensitive "contains" match
// on name or email. An empty query returns the full list, not an empty
// result.
func (s *DirectoryService) Search(ctx context.Context, query string) ([]model.UserSummary, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	results := make([]model.UserSummary, 0, len(users))
	for i := range users {
		if query != "" &&
			!strings.Contains(strings.ToLower(users[i].Name), query) &&
			!strings.Contains(strings.ToLower(users[i].Email), query) {
			continue
		}
		results = append(results, users[i].Summary())
	}
	return results, nil
}
