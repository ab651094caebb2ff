package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/statuspage-service/internal/observability"

	"gorm.io/gorm"
)

var notFoundErrors = []error{
	gorm.ErrRecordNotFound,
	ErrSessionNotFound,
	ErrUserNotFound,
	ErrPageNotFound,
	ErrTeamMemberNotFound,
	ErrComponentNotFound,
	ErrComponentGroupNotFound,
	ErrIncidentNotFound,
	ErrSubscriberNotFound,
	ErrConfirmationNotFound,
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return "not_found"
		}
	}
	return "error"
}

func record(ctx context.Context, repository, operation string, err error) {
	observability.RecordRepositoryOperation(ctx, repository, operation, outcomeOf(err))
}

// translateDuplicate maps a unique index violation onto a repository
// sentinel. It needs a gorm.DB opened with TranslateError.
func translateDuplicate(err, duplicate error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate
	}
	return err
}

// translate maps gorm's not-found error onto a repository sentinel.
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
